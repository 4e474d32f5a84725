package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireOpsKey adapts the net/http OpsKeyMiddleware to Gin.
func GinRequireOpsKey(ops *OpsKeyMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		ops.RequireOpsKey(next).ServeHTTP(c.Writer, c.Request)

		// the middleware already answered
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
