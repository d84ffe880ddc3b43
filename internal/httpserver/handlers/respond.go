package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// writeError maps any error onto the uniform error envelope. Unclassified
// errors become an opaque 500; their detail goes to the log, not the wire.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	e := apperr.From(err)
	if e.Status >= http.StatusInternalServerError {
		log.Error("handler error", logger.String("code", e.Code), logger.Error(err))
	}
	writeJSON(w, e.Status, errorBody{Error: errorDetail{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}})
}
