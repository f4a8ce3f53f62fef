package errors

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is an error that carries the HTTP status it should be reported with
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new *Error
func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrInvalidCredentials  = New("invalid credentials or user not found", http.StatusUnauthorized)
	ErrUsernameTaken       = New("username already exists", http.StatusConflict)
	ErrAdminSignup         = New("admin accounts cannot be created", http.StatusForbidden)
)

// Status returns the HTTP status for err, falling back to 500 for plain errors
func Status(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}

// ErrorHandler is the gin-rate-limit callback used when a client exceeds its quota
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "too many requests",
		"errors":  fmt.Sprintf("try again in %s", time.Until(info.ResetTime).Round(time.Second)),
		"status":  http.StatusText(http.StatusTooManyRequests),
	})
	c.Abort()
}
