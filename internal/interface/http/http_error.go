package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/greenguardian/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromDomainError maps a domain failure onto a status and response code.
func fromDomainError(err error) *HTTPError {
	message := apperrors.MessageOf(err)
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		return NewHTTPError(http.StatusBadRequest, "invalid_request", message, err)
	case apperrors.IsCode(err, apperrors.CodeNotFound):
		return NewHTTPError(http.StatusNotFound, "not_found", message, err)
	case apperrors.IsCode(err, apperrors.CodeUpstreamError):
		return NewHTTPError(http.StatusInternalServerError, apperrors.CodeUpstreamError, message, err)
	case apperrors.IsCode(err, apperrors.CodeStoreError):
		return NewHTTPError(http.StatusInternalServerError, apperrors.CodeStoreError, message, err)
	default:
		return asHTTPError(err)
	}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal Server Error",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
