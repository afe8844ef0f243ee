// Package failure carries an HTTP status alongside an error message so services can
// signal client mistakes without depending on the transport.
package failure

import (
	"errors"
	"net/http"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	ForbiddenError          = New(http.StatusForbidden, "You don't have the required permissions")
	ResourceRestrictedError = New(http.StatusForbidden, "You don't have permission to access this resource")
)

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func (e *Failure) Error() string {
	return e.Message
}

// BadRequest keeps err's text as the client facing message. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound takes the full message, e.g. "booking not found".
func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// BadGateway marks a failure of an upstream collaborator such as the payment gateway.
func BadGateway(msg string) error {
	return New(http.StatusBadGateway, msg)
}

// GetCode unwraps err looking for a Failure. Anything else is an internal error.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// IsServerError reports whether err should be treated as the server's fault.
func IsServerError(err error) bool {
	return err != nil && GetCode(err) >= http.StatusInternalServerError
}
