package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
	"github.com/vasigorc/items-api/internal/models"
)

// jsonResponse wraps a payload in the API Gateway response envelope.
func jsonResponse(status int, payload interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal response payload")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "text/plain"},
			Body:       "internal server error",
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	return jsonResponse(status, models.ErrorResponse{Error: message})
}
