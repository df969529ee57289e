package utils

import (
	"github.com/gin-gonic/gin"
)

// JSON sends data as the response body with the given status
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// ErrorResponse sends a standard error JSON response
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	ErrorResponseWithDetails(c, statusCode, code, message, nil)
}

// ErrorResponseWithDetails sends an error JSON response carrying extra detail
func ErrorResponseWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	body := gin.H{
		"error": message,
		"code":  code,
	}
	if id := c.GetString("request_id"); id != "" {
		body["request_id"] = id
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(statusCode, body)
}

// AbortWithError sends an error JSON response and stops the handler chain
func AbortWithError(c *gin.Context, statusCode int, code, message string) {
	ErrorResponse(c, statusCode, code, message)
	c.Abort()
}
