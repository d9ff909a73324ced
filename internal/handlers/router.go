package handlers

import (
	"errors"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

const resourceName = "items"

// operation is the typed dispatch target for a routed request. Routing on a
// closed enum keeps the method switch in Handle exhaustive instead of
// branching on raw strings.
type operation int

const (
	opCreate operation = iota
	opList
	opGet
	opUpdate
	opDelete
)

func (op operation) mutating() bool {
	return op == opCreate || op == opUpdate || op == opDelete
}

var (
	errRouteNotFound    = errors.New("resource not found")
	errMethodNotAllowed = errors.New("method not allowed")
)

// route classifies a request into an operation and an optional path item id.
// Paths have the form /items or /items/{id}; anything else is not found.
func route(request events.APIGatewayProxyRequest) (operation, string, error) {
	segments := strings.Split(strings.Trim(request.Path, "/"), "/")

	if len(segments) == 0 || segments[0] != resourceName || len(segments) > 2 {
		return 0, "", errRouteNotFound
	}

	var pathID string
	if len(segments) == 2 {
		pathID = segments[1]
	}

	switch request.HTTPMethod {
	case "POST":
		return opCreate, pathID, nil
	case "GET":
		if pathID == "" {
			return opList, "", nil
		}
		return opGet, pathID, nil
	case "PATCH", "PUT":
		return opUpdate, pathID, nil
	case "DELETE":
		return opDelete, pathID, nil
	default:
		return 0, "", errMethodNotAllowed
	}
}
