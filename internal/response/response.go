package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/hospital-api/internal/apperr"
)

// Envelope is the standard shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error sends a failure envelope with an explicit status code.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{Success: false, Error: message})
}

// AbortError is Error plus aborting the gin chain, for middleware use.
func AbortError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Envelope{Success: false, Error: message})
}

// FromError translates a service error into its envelope. Unclassified errors
// keep their detail only in development mode.
func FromError(c *gin.Context, err error, dev bool) {
	msg := apperr.PublicMessage(err)
	if dev && apperr.KindOf(err) == apperr.KindInternal {
		msg = err.Error()
	}
	c.JSON(apperr.Status(err), Envelope{Success: false, Error: msg})
}
