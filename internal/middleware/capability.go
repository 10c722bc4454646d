package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/landhub/landhub/internal/permissions"
	"github.com/landhub/landhub/pkg/errors"
	"github.com/landhub/landhub/pkg/metrics"
	"github.com/landhub/landhub/pkg/response"
)

// RequireCapability checks that the authenticated user may exercise the
// provided capability. The checked role is stored in the request context so
// handlers can branch on it without another lookup.
func RequireCapability(checker *permissions.Checker, capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUserIDKey)
		if !ok {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}
		userID, _ := v.(string)
		decision, err := checker.Check(c.Request.Context(), userID, capability)
		if err != nil {
			metrics.CapabilityChecks.WithLabelValues(capability, "error").Inc()
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"code": errors.ErrInternalServer.Code, "message": "capability check failed"}})
			return
		}
		if !decision.Allowed {
			metrics.CapabilityChecks.WithLabelValues(capability, "denied").Inc()
			response.Error(c, errors.ErrForbidden)
			c.Abort()
			return
		}
		metrics.CapabilityChecks.WithLabelValues(capability, "allowed").Inc()
		c.Set(CtxRoleKey, decision.Role)
		c.Next()
	}
}
