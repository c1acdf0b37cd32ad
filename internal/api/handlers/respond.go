package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	apperror.WriteJSON(w, status, envelope{Success: true, Data: data})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.ErrInvalidRequest.WithMessage("request body is required")
		}
		return apperror.ErrInvalidRequest.WithMessage("invalid request body").Wrap(err)
	}
	return nil
}

func pathID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ErrInvalidRequest.WithMessage("invalid " + key)
	}
	return id, nil
}

func queryID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ErrInvalidRequest.WithMessage("invalid " + key)
	}
	return id, nil
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.ErrInvalidRequest.WithMessage("invalid " + key + ", expected RFC 3339 or YYYY-MM-DD")
}
