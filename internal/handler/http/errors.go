package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rookgm/storefront/internal/logger"
	"go.uber.org/zap"
)

// inventoryURL is the downstream service named in gateway-wrapped failures
const inventoryURL = "http://inventory-service/api/inventory"

type messageResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Debug("write response", zap.Error(err))
	}
}

func writeText(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(text)); err != nil {
		logger.Log.Debug("write response", zap.Error(err))
	}
}

// writeMessage writes the error document the commerce API itself produces
func writeMessage(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, messageResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   msg,
		Path:      r.URL.Path,
	})
}

// writeError writes the short {"error": ...} form used by the auth endpoints
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeViolations writes a bean validation style array
func writeViolations(w http.ResponseWriter, violations []violation) {
	writeJSON(w, http.StatusUnprocessableEntity, violations)
}

// writeGateway writes a downstream failure the way a Feign client rethrows it:
// the trace of the failed call followed by the downstream body.
func writeGateway(w http.ResponseWriter, code int, method, target, call, msg string) {
	body, err := json.Marshal([]errorMessage{{Message: msg}})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeText(w, code, fmt.Sprintf("[%d %s] during [%s] to [%s] [%s]: %s",
		code, http.StatusText(code), method, target, call, body))
}

type errorMessage struct {
	Message string `json:"message"`
}
