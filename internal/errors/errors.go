package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Error carries an HTTP status alongside the message so handlers can push
// failures through gin's error chain and let the middleware render them.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with an explicit status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// InvalidArg flags a bad request parameter.
func InvalidArg(name string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: "invalid argument: " + name}
}

// NotFound flags a missing resource.
func NotFound(what string) *Error {
	return &Error{Code: http.StatusNotFound, Message: what + " not found"}
}

// Wrap attaches a cause to a status-coded error.
func Wrap(code int, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Err aborts the request with the status carried by err, defaulting to 500.
func Err(c *gin.Context, err error) {
	var coded *Error
	if errors.As(err, &coded) {
		c.AbortWithStatusJSON(coded.Code, gin.H{"error": coded.Message})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// RecoveryMiddleware converts panics into 500 responses.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("handler panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()
		c.Next()
	}
}

// ErrorHandlerMiddleware renders errors handlers attached via c.Error.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Err(c, c.Errors.Last().Err)
	}
}
