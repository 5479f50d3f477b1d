package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/llm"
	"github.com/doglog-app/doglog/internal/logging"
)

// errNoAnalysis is returned when a plan is requested before any analysis.
var errNoAnalysis = errors.New("no cached analysis for this range; request an analysis first")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain and gateway errors to HTTP status codes.
func statusFor(err error) int {
	var remote *llm.RemoteError
	switch {
	case errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, journal.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, llm.ErrMissingCredential):
		return http.StatusBadRequest
	case errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errNoAnalysis):
		return http.StatusConflict
	case errors.Is(err, llm.ErrInvalidCredential),
		errors.Is(err, llm.ErrMalformedResponse),
		errors.As(err, &remote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// hidden from the client.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(journal.ErrInvalidInput, err)
	}
	return nil
}
