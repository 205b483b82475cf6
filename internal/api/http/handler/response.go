package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
)

const maxBodyBytes = 1 << 20

// envelope is the body of every failed response.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Field   string      `json:"field,omitempty"`
	Error   *diagnostic `json:"error,omitempty"`
}

// diagnostic describes an internal failure. Never sent in production.
type diagnostic struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Stack   string `json:"stack,omitempty"`
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Responder writes JSON bodies and maps errors to status codes.
type Responder struct {
	logger  *logger.Logger
	verbose bool
}

// NewResponder creates a Responder. With verbose set, internal errors carry a diagnostic.
func NewResponder(logger *logger.Logger, verbose bool) *Responder {
	return &Responder{logger: logger, verbose: verbose}
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Error("Responder: failed to encode response",
			"error", err.Error())
	}
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, body := rs.handleError(err)
	if status >= http.StatusInternalServerError {
		rs.logger.Error("HTTP handler: request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error())
	}
	rs.JSON(w, status, body)
}

func (rs *Responder) handleError(err error) (int, envelope) {
	if apiErr, ok := apperr.As(err); ok {
		return apiErr.Status, envelope{
			Message: apiErr.Message,
			Code:    apiErr.Code,
			Field:   apiErr.Field,
		}
	}

	if errors.Is(err, model.ErrNotFound) {
		return http.StatusNotFound, envelope{
			Message: "resource not found",
			Code:    apperr.CodeNotFound,
		}
	}

	body := envelope{
		Message: "internal server error",
		Code:    apperr.CodeInternal,
	}
	if rs.verbose {
		body.Error = newDiagnostic(err)
	}
	return http.StatusInternalServerError, body
}

func newDiagnostic(err error) *diagnostic {
	d := &diagnostic{
		Message: err.Error(),
		Name:    fmt.Sprintf("%T", err),
	}
	var st stackTracer
	if errors.As(err, &st) {
		d.Stack = fmt.Sprintf("%+v", st.StackTrace())
	}
	return d
}

// decodeJSON reads a JSON object into dst. Numbers are kept as json.Number
// so identifiers go through a single coercion step. An empty body decodes
// as an empty object.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.NewErrInvalidValue("body", "malformed JSON")
	}
	return nil
}
