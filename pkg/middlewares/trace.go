package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/pkg/utils"
)

// TraceID reuses the caller's X-Trace-Id or mints one. The id is stored on the gin context,
// on the request context (so the Konduto client forwards it) and echoed in the response.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.Request.Header.Get(pkg.HeaderTraceId)
		if utils.IsEmpty(traceID) || len(traceID) > 64 {
			traceID = uuid.New().String()
		}
		c.Set(pkg.TraceId, traceID)
		c.Request = c.Request.WithContext(pkg.ContextWithTraceID(c.Request.Context(), traceID))
		c.Writer.Header().Set(pkg.HeaderTraceId, traceID)
		c.Next()
	}
}
