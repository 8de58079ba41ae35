package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-hazard-watch/internal/ingestion"
	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/monitor"
	"github.com/mr1hm/go-hazard-watch/internal/repository"
)

// ErrorResponse is the body of every non-2xx reply. Clients show Message in
// a dismissable banner.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Source  string `json:"source,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "route", c.FullPath(), "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, ErrorResponse) {
	var verr *models.ValidationError
	var nerr *models.NetworkError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: verr.Message, Field: verr.Field}
	case errors.Is(err, repository.ErrDuplicateEmail):
		return http.StatusConflict, ErrorResponse{Error: "duplicate", Message: "an account with this email already exists"}
	case errors.Is(err, monitor.ErrSuperseded):
		return http.StatusConflict, ErrorResponse{Error: "superseded", Message: "a newer request for the same subject replaced this one"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "resource not found"}
	case errors.Is(err, ingestion.ErrPlaceNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "place not found"}
	case errors.As(err, &nerr):
		return http.StatusBadGateway, ErrorResponse{Error: "upstream_unavailable", Message: "could not fetch data, please try again", Source: nerr.Source}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: "timeout", Message: "request timed out"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "internal server error"}
	}
}

func badRequest(field, message string) error {
	return &models.ValidationError{Field: field, Message: message}
}
