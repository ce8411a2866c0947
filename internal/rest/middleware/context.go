package middleware

import (
	"github.com/atshybrid/kaburlu-billing/internal/types"
	"github.com/gin-gonic/gin"
)

// ContextMiddleware moves the caller identity headers into the request
// context. The headers are set by the upstream auth gateway; this service
// trusts them and never parses credentials itself.
func ContextMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	if tenantID := c.GetHeader(types.HeaderTenantID); tenantID != "" {
		ctx = types.SetTenantID(ctx, tenantID)
	}
	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = types.SetUserID(ctx, userID)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
