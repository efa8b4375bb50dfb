// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render writes JSON responses and maps domain errors to HTTP
// status codes.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"blogicum/internal/blog"
	"blogicum/internal/policy"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("json encode failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	Raw(w, status, body)
}

// Raw writes an already encoded JSON body.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
	w.Write([]byte("\n"))
}

// NoContent answers 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Status returns the HTTP status for an error returned by the blog service.
func Status(err error) int {
	var verr blog.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, policy.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, policy.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, policy.ErrUnauthenticated), errors.Is(err, blog.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.As(err, &verr), errors.Is(err, blog.ErrInvalidCode), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, blog.ErrConflict), errors.Is(err, blog.ErrSlugLocked), errors.Is(err, blog.ErrTwoFactorEnabled):
		return http.StatusConflict
	case errors.Is(err, blog.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error writes err as a JSON error response. Unexpected errors are logged
// and reported without detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	body := ErrorBody{Error: http.StatusText(status)}

	var verr blog.ValidationError
	switch {
	case errors.As(err, &verr):
		body.Fields = verr
	case status == http.StatusInternalServerError:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	case status != http.StatusNotFound:
		body.Error = message(err)
	}

	JSON(w, status, body)
}

// message strips the package prefix from sentinel errors.
func message(err error) string {
	for _, e := range []error{
		policy.ErrForbidden, policy.ErrUnauthenticated,
		blog.ErrInvalidCredentials, blog.ErrInvalidCode,
		blog.ErrConflict, blog.ErrSlugLocked, blog.ErrTwoFactorEnabled,
		blog.ErrStorageDisabled,
	} {
		if errors.Is(err, e) {
			return trimPrefix(e.Error())
		}
	}
	return err.Error()
}

func trimPrefix(s string) string {
	const prefix = "blog: "
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}

// ErrBadRequest marks malformed requests: bad JSON, bad path parameters.
var ErrBadRequest = errors.New("bad request")

// Decode reads a JSON request body into dst. Unknown fields and trailing
// data are rejected.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: body must contain a single JSON object", ErrBadRequest)
	}
	return nil
}
