package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/pipeviz/pkg/errors"
)

// ErrorBody is the JSON body of an error response.
type ErrorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// StatusCode maps an error to an HTTP status code.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.IsValidation(err):
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeStageNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as an indented JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteError writes err as a JSON error response and returns the status.
func WriteError(w http.ResponseWriter, err error) int {
	status := StatusCode(err)
	body := ErrorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)}
	if status == http.StatusInternalServerError {
		body.Error = http.StatusText(status)
		if body.Code == "" {
			body.Code = errors.ErrCodeInternal
		}
	}
	_ = WriteJSON(w, status, body)
	return status
}
