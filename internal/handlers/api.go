package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"trip-guide/internal/client"
	"trip-guide/internal/wizard"
)

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode JSON response", zap.Error(err))
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathID parses a numeric path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// errorStatus maps wizard and CMS errors onto the status the admin API answers with.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, wizard.ErrValidation), errors.Is(err, wizard.ErrOutOfRange), errors.Is(err, client.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, client.ErrNotFound), errors.Is(err, wizard.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, client.ErrConflict):
		return http.StatusConflict
	}
	var apiErr *client.APIError
	if client.IsUpstreamFailure(err) || errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// result is the body of every admin wizard response.
type result struct {
	Toast wizard.Toast `json:"toast"`
	Data  any          `json:"data,omitempty"`
}

// reply writes a wizard outcome. CMS rejections that carry a message
// replace the generic toast text so the editor sees why.
func reply(w http.ResponseWriter, logger *zap.Logger, okStatus int, toast wizard.Toast, data any, err error) {
	if err == nil {
		jsonResponse(w, okStatus, result{Toast: toast, Data: data})
		return
	}
	status := errorStatus(err)
	if status == http.StatusBadRequest || status == http.StatusConflict {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			toast.Message = client.Message(err, toast.Message)
		}
	}
	if status >= http.StatusInternalServerError {
		logger.Warn("wizard action failed", zap.Int("status", status), zap.Error(err))
	}
	jsonResponse(w, status, result{Toast: toast})
}
