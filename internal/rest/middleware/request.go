package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/leaseflow/leaseflow/internal/types"
)

// RequestIDMiddleware stamps every request with an id, propagating a
// caller-supplied X-Request-ID when present.
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
