package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/capao/capitascore/internal/platform/logging"
	"github.com/capao/capitascore/internal/usecase"
)

const apiVersion = "2.0"

type responseEnvelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status,omitempty"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

func writeData(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, responseEnvelope{
		APIVersion: apiVersion,
		Data:       data,
	})
}

func writeError(w http.ResponseWriter, statusCode int, status, message string, items ...errorItem) {
	writeEnvelope(w, statusCode, responseEnvelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    statusCode,
			Message: message,
			Status:  status,
			Errors:  items,
		},
	})
}

// writeUsecaseError maps service sentinels onto HTTP statuses. Unknown
// errors become 500 with a generic message; the detail stays in the log.
func writeUsecaseError(ctx context.Context, w http.ResponseWriter, logger *logging.Logger, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	case errors.Is(err, usecase.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, usecase.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", err.Error())
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
	default:
		if logger == nil {
			logger = logging.Default()
		}
		logger.ErrorContext(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func writeEnvelope(w http.ResponseWriter, statusCode int, envelope responseEnvelope) {
	body, err := sonic.Marshal(envelope)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}
