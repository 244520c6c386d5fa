package tracing

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/shared/id"
)

// HTTPMiddleware logs each request of the stub server together with the
// IDs the client propagated.
func HTTPMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if opID := c.GetHeader(HeaderOperationID); opID != "" {
			ctx = WithOperationID(ctx, id.OperationID(opID))
			c.Request = c.Request.WithContext(ctx)
		}
		if reqID := c.GetHeader(HeaderRequestID); reqID != "" {
			c.Header(HeaderRequestID, reqID)
		}

		start := time.Now()
		c.Next()

		logger.Debug("request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader(HeaderRequestID)),
			Field(ctx),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
