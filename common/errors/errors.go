package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error is an HTTP-facing application error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap copies base and attaches err. The predefined values are shared and must not be mutated.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

var (
	ErrBadRequest       = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized     = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden        = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound         = New(http.StatusNotFound, "Not found", nil)
	ErrMethodNotAllowed = New(http.StatusMethodNotAllowed, "Method not allowed", nil)
	ErrTooManyRequests  = New(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	ErrInternalServer   = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Abort stops the chain and writes err as {"error": message}.
func Abort(c *gin.Context, err *Error) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

// ErrorMiddleware renders the last error attached with c.Error when the handler wrote nothing.
func ErrorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := err.(*Error)
		if !ok {
			appErr = Wrap(ErrInternalServer, err)
		}
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error("Unhandled request error", zap.String("path", c.Request.URL.Path), zap.Error(appErr))
		}
		Abort(c, appErr)
	}
}

// Recovery converts panics into a 500 through ErrorMiddleware.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		Abort(c, ErrInternalServer)
	})
}

// NoRoute answers unknown paths.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		Abort(c, ErrNotFound)
	}
}

// NoMethod answers known paths hit with an unsupported method.
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		Abort(c, ErrMethodNotAllowed)
	}
}
