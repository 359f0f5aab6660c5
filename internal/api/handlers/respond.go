package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wonny/finbrief/internal/briefing"
	"github.com/wonny/finbrief/internal/contracts"
)

// Runner executes one lookup run. *briefing.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, query string, observe briefing.Observer) *contracts.Briefing
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusClientClosedRequest is the nginx convention for a caller that left
// before the response was ready
const statusClientClosedRequest = 499

// StatusCode maps a finished run onto an HTTP status
func StatusCode(b *contracts.Briefing) int {
	if b.Succeeded() {
		return http.StatusOK
	}

	switch b.FailureKind {
	case contracts.KindInvalidInput:
		return http.StatusBadRequest
	case contracts.KindNotFound:
		return http.StatusNotFound
	case contracts.KindTimeout:
		return http.StatusGatewayTimeout
	case contracts.KindCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusBadGateway
	}
}
