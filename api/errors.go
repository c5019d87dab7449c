package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/garnizeh/jobdesk/internal/policy"
	"github.com/garnizeh/jobdesk/internal/reqctx"
	"github.com/garnizeh/jobdesk/pkg/jobquery"
	"github.com/garnizeh/jobdesk/pkg/repository"
)

const (
	msgUnauthenticated  = "Unauthenticated."
	msgNotFound         = "Resource not found."
	msgMethodNotAllowed = "Method not allowed."
	msgNotImplemented   = "Not implemented."
	msgMalformedBody    = "Malformed JSON body."
	msgServerError      = "Server Error"
)

var (
	errUnauthenticated = errors.New("unauthenticated")
	errNotImplemented  = errors.New("not implemented")
	errMalformedBody   = errors.New("malformed request body")
)

type messageResponse struct {
	Message string `json:"message"`
}

// ValidationError collects per-field messages for a 422 response.
type ValidationError struct {
	fields []string
	errors map[string][]string
}

func (e *ValidationError) Add(field, message string) {
	if e.errors == nil {
		e.errors = map[string][]string{}
	}
	if _, ok := e.errors[field]; !ok {
		e.fields = append(e.fields, field)
	}
	e.errors[field] = append(e.errors[field], message)
}

func (e *ValidationError) Empty() bool { return len(e.fields) == 0 }

// Message is the first error, followed by a count of the remaining ones.
func (e *ValidationError) Message() string {
	if e.Empty() {
		return "The given data was invalid."
	}
	first := e.errors[e.fields[0]][0]
	rest := -1
	for _, msgs := range e.errors {
		rest += len(msgs)
	}
	switch rest {
	case 0:
		return first
	case 1:
		return first + " (and 1 more error)"
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Message()
}

// Fields returns the per-field messages.
func (e *ValidationError) Fields() map[string][]string {
	return e.errors
}

type validationResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeMessage(w http.ResponseWriter, message string, status int) {
	writeJSON(w, messageResponse{Message: message}, status)
}

// writeError maps domain and request errors to HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	var ferr *jobquery.FieldError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, validationResponse{Message: verr.Message(), Errors: verr.Fields()}, http.StatusUnprocessableEntity)
	case errors.As(err, &ferr):
		v := &ValidationError{}
		v.Add(ferr.Field, fmt.Sprintf("The %s field %s.", strings.ReplaceAll(ferr.Field, "_", " "), ferr.Message))
		writeJSON(w, validationResponse{Message: v.Message(), Errors: v.Fields()}, http.StatusUnprocessableEntity)
	case errors.Is(err, policy.ErrUnauthorized):
		writeMessage(w, policy.UnauthorizedMessage, http.StatusUnauthorized)
	case errors.Is(err, errUnauthenticated):
		writeMessage(w, msgUnauthenticated, http.StatusUnauthorized)
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, msgNotFound, http.StatusNotFound)
	case errors.Is(err, errNotImplemented):
		writeMessage(w, msgNotImplemented, http.StatusNotImplemented)
	case errors.Is(err, errMalformedBody):
		writeMessage(w, msgMalformedBody, http.StatusBadRequest)
	default:
		reqctx.Logger(r.Context(), logger).Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		writeMessage(w, msgServerError, http.StatusInternalServerError)
	}
}

// NotFoundHandler answers unmatched routes with a JSON 404.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, msgNotFound, http.StatusNotFound)
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, msgMethodNotAllowed, http.StatusMethodNotAllowed)
}
