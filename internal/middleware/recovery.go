package middleware

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
)

// Recovery turns a panic into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[%s] panic: %v", c.GetString(ContextRequestID), recovered)
		httperr.Internal(c, "internal_error", "Unexpected server error.")
	})
}

func NoRoute(c *gin.Context) {
	httperr.NotFound(c, "route_not_found", fmt.Sprintf("route %s not found", c.Request.URL.Path))
}
