package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, message, key string, value any) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		key:       value,
	})
}

func Created(c *gin.Context, message, key string, value any) {
	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		key:       value,
	})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// List always renders a JSON array, never null. emptyMessage is used when
// there is nothing to return.
func List[T any](c *gin.Context, key string, data []T, emptyMessage string) {
	if data == nil {
		data = []T{}
	}
	body := gin.H{
		key:     data,
		"total": len(data),
	}
	if len(data) == 0 && emptyMessage != "" {
		body["message"] = emptyMessage
	}
	c.JSON(http.StatusOK, body)
}
