package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body shape of every response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK 200 with data
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created 201 with data and a message
func Created(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: msg, Data: data})
}

// Done 200 with only a confirmation message
func Done(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// Fail writes a failure; detail goes to the error field when non-empty.
func Fail(c *gin.Context, status int, msg, detail string) {
	if msg == "" {
		msg = StatusText(status)
	}
	c.JSON(status, Envelope{Success: false, Message: msg, Error: detail})
}

// Abort is Fail for middleware: it also stops the handler chain.
func Abort(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = StatusText(status)
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: msg})
}
