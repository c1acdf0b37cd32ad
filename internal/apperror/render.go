package apperror

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type body struct {
	Success   bool   `json:"success"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// Renderer writes errors in the public response shape. Details and causes are
// only exposed when Verbose is set.
type Renderer struct {
	Verbose bool
	Logger  *slog.Logger
}

func (rn Renderer) Write(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := From(err)
	if !ok {
		e = ErrInternal.Wrap(err)
	}

	if e.Status >= http.StatusInternalServerError && rn.Logger != nil {
		rn.Logger.Error("request failed",
			"code", e.Code,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	b := body{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
	}
	if rn.Verbose {
		b.Details = e.Details
		if b.Details == "" && e.Err != nil {
			b.Details = e.Err.Error()
		}
	}

	WriteJSON(w, e.Status, b)
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
