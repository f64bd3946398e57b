package api

import "github.com/gin-gonic/gin"

// envelope is the uniform response wrapper: success plus either data or a
// human-readable message.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}
