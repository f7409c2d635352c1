package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindTooManyRequests
)

func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure that already knows how it should be reported to the client.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NewBadRequest(code, message string) *Error {
	return New(KindBadRequest, code, message)
}

func NewUnauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

func NewForbidden(code, message string) *Error {
	return New(KindForbidden, code, message)
}

func NewNotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

// Wrap marks err as an internal failure. The cause is logged, never returned.
func Wrap(err error, code, message string) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Err: err}
}

type HTTPError struct {
	Status  int    `json:"status"`
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond writes err using the envelope matching its kind. Anything that is
// not an *Error or a BusinessError degrades to a generic internal error.
func Respond(c *gin.Context, err error) {
	var he *Error
	if errors.As(err, &he) {
		if he.Kind == KindInternal {
			log.Printf("[%s] %s: %v", c.GetString("requestID"), he.Code, he.Err)
			Internal(c, he.Code, he.Message)
			return
		}
		Write(c, he.Kind.Status(), he.Code, he.Message)
		return
	}

	var be BusinessError
	if errors.As(err, &be) {
		BadRequest(c, be.Code, be.Message())
		return
	}

	log.Printf("[%s] unexpected error: %v", c.GetString("requestID"), err)
	Internal(c, "internal_error", "Unexpected server error.")
}
