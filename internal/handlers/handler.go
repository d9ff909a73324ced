package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/sirupsen/logrus"
	"github.com/vasigorc/items-api/config"
	"github.com/vasigorc/items-api/internal/dynamo"
	"github.com/vasigorc/items-api/internal/helper"
	"github.com/vasigorc/items-api/internal/models"
)

// ItemService is the store adapter surface the handler dispatches to.
type ItemService interface {
	CreateItem(ctx context.Context, partitionKey, payload string) (models.Item, error)
	GetItem(ctx context.Context, partitionKey, itemID string) (models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	UpdateItem(ctx context.Context, partitionKey, itemID, payload string) (models.Item, error)
	DeleteItem(ctx context.Context, partitionKey, itemID string) error
}

type Handler struct {
	Store ItemService

	// WriteKey guards mutating operations when non-empty.
	WriteKey string
}

var (
	initOnce       sync.Once
	initErr        error
	defaultHandler *Handler
)

// ItemHandler is the Lambda entry point. The DynamoDB client and config are
// initialized on the first invocation and shared across warm invocations.
func ItemHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	initOnce.Do(func() {
		defaultHandler, initErr = newDefaultHandler(ctx)
	})
	if initErr != nil {
		logrus.WithError(initErr).Error("Failed to initialize handler")
		return errorResponse(http.StatusInternalServerError, "internal server error"), nil
	}

	return defaultHandler.Handle(ctx, request), nil
}

func newDefaultHandler(ctx context.Context) (*Handler, error) {
	cfg, awsCfg, err := config.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	handler := &Handler{
		Store: dynamo.NewDynamoClient(dynamodb.NewFromConfig(awsCfg), cfg.TableName),
	}

	if cfg.WriteKeySecretName != "" {
		secretsClient := secretsmanager.NewFromConfig(awsCfg)
		creds, err := helper.RetrieveWriteKey(ctx, cfg.WriteKeySecretName, secretsClient)
		if err != nil {
			return nil, err
		}
		handler.WriteKey = creds.WriteAPIKey
	}

	return handler, nil
}

// Handle routes a single request and converts every failure into a response
// envelope; nothing propagates past this boundary.
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	logrus.WithFields(logrus.Fields{
		"method": request.HTTPMethod,
		"path":   request.Path,
	}).Info("Processing request")

	op, pathID, err := route(request)
	if err != nil {
		if errors.Is(err, errMethodNotAllowed) {
			return errorResponse(http.StatusMethodNotAllowed, "method not allowed")
		}
		return errorResponse(http.StatusNotFound, "not found")
	}

	if h.WriteKey != "" && op.mutating() && headerValue(request.Headers, "X-Api-Key") != h.WriteKey {
		logrus.WithField("method", request.HTTPMethod).Warn("Rejected mutating request without valid write key")
		return errorResponse(http.StatusUnauthorized, "unauthorized")
	}

	switch op {
	case opCreate:
		return h.handleCreate(ctx, request)
	case opList:
		return h.handleList(ctx)
	case opGet:
		return h.handleGet(ctx, request, pathID)
	case opUpdate:
		return h.handleUpdate(ctx, request, pathID)
	case opDelete:
		return h.handleDelete(ctx, request, pathID)
	default:
		return errorResponse(http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) handleCreate(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var req models.CreateItemRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		logrus.WithError(err).Warn("Failed to parse create request body")
		return errorResponse(http.StatusBadRequest, "invalid request payload")
	}

	item, err := h.Store.CreateItem(ctx, req.PartitionKey, req.Payload)
	if err != nil {
		return storeErrorResponse(err)
	}

	return jsonResponse(http.StatusCreated, item)
}

func (h *Handler) handleList(ctx context.Context) events.APIGatewayProxyResponse {
	items, err := h.Store.ListItems(ctx)
	if err != nil {
		return storeErrorResponse(err)
	}

	return jsonResponse(http.StatusOK, items)
}

func (h *Handler) handleGet(ctx context.Context, request events.APIGatewayProxyRequest, pathID string) events.APIGatewayProxyResponse {
	partitionKey := request.QueryStringParameters["partition_key"]
	if partitionKey == "" {
		return errorResponse(http.StatusBadRequest, "partition_key query parameter is required")
	}

	item, err := h.Store.GetItem(ctx, partitionKey, pathID)
	if err != nil {
		return storeErrorResponse(err)
	}

	return jsonResponse(http.StatusOK, item)
}

func (h *Handler) handleUpdate(ctx context.Context, request events.APIGatewayProxyRequest, pathID string) events.APIGatewayProxyResponse {
	var req models.UpdateItemRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		logrus.WithError(err).Warn("Failed to parse update request body")
		return errorResponse(http.StatusBadRequest, "invalid request payload")
	}

	if req.ItemID == "" {
		req.ItemID = pathID
	}

	item, err := h.Store.UpdateItem(ctx, req.PartitionKey, req.ItemID, req.Payload)
	if err != nil {
		return storeErrorResponse(err)
	}

	return jsonResponse(http.StatusAccepted, item)
}

func (h *Handler) handleDelete(ctx context.Context, request events.APIGatewayProxyRequest, pathID string) events.APIGatewayProxyResponse {
	partitionKey := request.QueryStringParameters["partition_key"]

	if err := h.Store.DeleteItem(ctx, partitionKey, pathID); err != nil {
		return storeErrorResponse(err)
	}

	return jsonResponse(http.StatusAccepted, map[string]string{
		"partition_key": partitionKey,
		"item_id":       pathID,
	})
}

// storeErrorResponse maps adapter errors onto the response taxonomy. Store
// round-trip failures stay 500s; they are never reported as not found.
func storeErrorResponse(err error) events.APIGatewayProxyResponse {
	switch {
	case errors.Is(err, dynamo.ErrMissingField):
		return errorResponse(http.StatusBadRequest, err.Error())
	case errors.Is(err, dynamo.ErrNotFound):
		return errorResponse(http.StatusNotFound, "not found")
	default:
		logrus.WithError(err).Error("Store operation failed")
		return errorResponse(http.StatusInternalServerError, "internal server error")
	}
}

// headerValue does a case-insensitive header lookup; API Gateway does not
// normalize header casing.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
