package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps an application error onto its HTTP status via the
// error's code.  Internal errors are masked; their detail stays in the logs.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	message := err.Error()
	switch code {
	case errors.CodeInternal, errors.CodeUnknown, errors.CodeSerialization:
		message = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{Code: code.String(), Message: message})
}
