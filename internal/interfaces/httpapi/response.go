package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/haxball-league/internal/usecase"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

// writeList always writes a JSON array, never null.
func writeList[T any](ctx context.Context, w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(ctx, w, http.StatusOK, items)
}

// writeError answers with the caller's public message. Internal details stay
// in the logs.
func writeError(ctx context.Context, w http.ResponseWriter, err error, publicMessage string) {
	writeJSON(ctx, w, statusFor(err), errorBody{Error: publicMessage})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorBody{Error: "Error interno del servidor"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
