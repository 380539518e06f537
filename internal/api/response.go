package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gyaneshwarpardhi/critnet/internal/engine"
	"github.com/gyaneshwarpardhi/critnet/internal/graph"
	"github.com/gyaneshwarpardhi/critnet/internal/input"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps engine errors to HTTP status codes: bad parameters are 400,
// graphs that cannot be analysed are 422, backpressure is 429 and a sync
// deadline is 408.
func statusFor(err error) int {
	var (
		validation *engine.ValidationError
		startErr   *graph.StartNodeError
		endErr     *graph.EndNodeError
		connErr    *graph.NoEndConnectionError
		cycleErr   *graph.CycleError
		loadErr    *input.LoadError
	)
	switch {
	case errors.Is(err, engine.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrTimeout):
		return http.StatusRequestTimeout
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &startErr),
		errors.As(err, &endErr),
		errors.As(err, &connErr),
		errors.As(err, &cycleErr),
		errors.As(err, &loadErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// inputWarnings flattens the joined load error into one warning line per
// malformed cell, prefixed with the input it came from.
func inputWarnings(err error) []string {
	warnings := []string{}
	for _, e := range flatten(err) {
		var loadErr *input.LoadError
		if !errors.As(e, &loadErr) {
			continue
		}
		for _, cell := range loadErr.Cells {
			warnings = append(warnings, loadErr.Input+": "+cell.Error())
		}
	}
	return warnings
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
