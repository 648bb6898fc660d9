// Package response writes the {status, message, data} envelope every API
// response uses.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func JSON(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Status: status, Message: message, Data: data})
}

// Abort writes the envelope and stops the handler chain.
func Abort(c *gin.Context, status int, message string, data interface{}) {
	c.AbortWithStatusJSON(status, Envelope{Status: status, Message: message, Data: data})
}

func Success(c *gin.Context, data interface{}, message string) {
	JSON(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, data interface{}, message string) {
	JSON(c, http.StatusCreated, message, data)
}

func Error(c *gin.Context, status int, message string) {
	JSON(c, status, message, nil)
}

func ValidationError(c *gin.Context, errors map[string][]string, message string) {
	if message == "" {
		message = "Validation failed"
	}
	JSON(c, http.StatusUnprocessableEntity, message, gin.H{"errors": errors})
}

// Unauthorized names the specific cause in data.error.
func Unauthorized(c *gin.Context, message, cause string) {
	Abort(c, http.StatusUnauthorized, message, gin.H{"error": cause})
}
