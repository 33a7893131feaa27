// Package errors holds the typed errors shared across the probe.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cataloro/cataloro-probe/internal/util"
)

const maxBodyRunes = 200

// ResourceNotFoundError is returned when a stored run or a remote resource does not exist.
type ResourceNotFoundError struct {
	Kind string
	ID   string
}

func (e *ResourceNotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func NewResourceNotFoundError(kind, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func NewRunNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("run", id)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// APIError is a non-2xx answer from the marketplace backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := util.Truncate(e.Body, maxBodyRunes+len("..."))
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, body)
}

func NewAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{Method: method, Path: path, StatusCode: status, Body: string(body)}
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	var e *APIError
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsValidation reports 400 and 422 answers.
func IsValidation(err error) bool {
	s := StatusCode(err)
	return s == http.StatusBadRequest || s == http.StatusUnprocessableEntity
}

// AssertionError is a failed expectation inside a check.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string {
	return e.Msg
}

func NewAssertionError(format string, args ...any) *AssertionError {
	return &AssertionError{Msg: fmt.Sprintf(format, args...)}
}

func IsAssertionError(err error) bool {
	var e *AssertionError
	return errors.As(err, &e)
}

// UnknownSuiteError is returned when a requested suite name is not registered.
type UnknownSuiteError struct {
	Name string
}

func (e *UnknownSuiteError) Error() string {
	return fmt.Sprintf("unknown suite %q", e.Name)
}

func NewUnknownSuiteError(name string) *UnknownSuiteError {
	return &UnknownSuiteError{Name: name}
}

func IsUnknownSuiteError(err error) bool {
	var e *UnknownSuiteError
	return errors.As(err, &e)
}

// UnknownTargetError is returned when a named deployment is not configured.
type UnknownTargetError struct {
	Name string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q", e.Name)
}

func NewUnknownTargetError(name string) *UnknownTargetError {
	return &UnknownTargetError{Name: name}
}

func IsUnknownTargetError(err error) bool {
	var e *UnknownTargetError
	return errors.As(err, &e)
}

// RunFailedError is returned when a finished run does not meet the pass policy.
type RunFailedError struct {
	Failed      int
	SuccessRate float64
	Reason      string
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("run failed: %s (%d failed, success rate %.1f%%)", e.Reason, e.Failed, e.SuccessRate)
}

func NewRunFailedError(reason string, failed int, rate float64) *RunFailedError {
	return &RunFailedError{Failed: failed, SuccessRate: rate, Reason: reason}
}

func IsRunFailedError(err error) bool {
	var e *RunFailedError
	return errors.As(err, &e)
}
