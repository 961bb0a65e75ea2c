package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pantryworks/trackhub/internal/core"
	"github.com/pantryworks/trackhub/internal/logging"
	"github.com/pantryworks/trackhub/internal/metrics"
	"github.com/pantryworks/trackhub/internal/tabular"
)

// failure is the error envelope sent to clients.
type failure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON encodes v as JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode failed", "error", err)
	}
}

// writeFailure writes an error envelope and counts it.
func writeFailure(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	metrics.RequestErrors.WithLabelValues(code).Inc()
	writeJSON(w, r, status, failure{Error: message, Code: code})
}

// writeEngineError converts an engine error into the client envelope.
//
// Validation failures keep HTTP 200 with ok:false, the envelope the intake
// forms expect. Configuration and unknown errors are 500s; lock contention
// is a 409 the client can retry.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.FromContext(r.Context())
	msg := core.MapError(err)

	switch {
	case core.IsValidation(err):
		writeFailure(w, r, http.StatusOK, err.Error(), msg.Code)
	case errors.Is(err, core.ErrLockUnavailable):
		writeFailure(w, r, http.StatusConflict, core.FormatUserError(err), msg.Code)
	case errors.Is(err, tabular.ErrNotConfigured):
		log.Error("store not configured", "error", err)
		writeFailure(w, r, http.StatusInternalServerError, core.FormatUserError(err), msg.Code)
	case core.IsUserFacing(err):
		writeFailure(w, r, http.StatusInternalServerError, core.FormatUserError(err), msg.Code)
	default:
		log.Error("request failed", "error", err)
		writeFailure(w, r, http.StatusInternalServerError, core.FormatUserError(err), msg.Code)
	}
}

// decode reads the request body into dst, limited to 1 MiB.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(dst)
}
