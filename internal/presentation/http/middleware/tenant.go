package middleware

import (
	"errors"
	"strings"

	"github.com/dukaanlabs/dukaan-api/internal/application/service"
	infraRepo "github.com/dukaanlabs/dukaan-api/internal/infrastructure/repository"
	"github.com/dukaanlabs/dukaan-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractTenantFromHost extracts the tenant slug from the subdomain,
// e.g. "acme.dukaan.app" -> "acme". The X-Tenant header overrides it so
// tooling can address a store without DNS.
func ExtractTenantFromHost(host string) (string, error) {
	// Remove port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// TenantMiddleware resolves the tenant from the request and binds it to the
// request context, so every storage query downstream is tenant-scoped. A
// tenant the authenticated user does not belong to resolves as not found.
func TenantMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantSlug := c.GetHeader("X-Tenant")
		if tenantSlug == "" {
			slug, err := ExtractTenantFromHost(c.Request.Host)
			if err != nil {
				response.BadRequest(c, "Tenant could not be determined from request")
				c.Abort()
				return
			}
			tenantSlug = slug
		}

		userID := uuid.Nil
		if v, exists := c.Get("user_id"); exists {
			if id, ok := v.(uuid.UUID); ok {
				userID = id
			}
		}

		tenant, err := authService.ResolveTenant(c.Request.Context(), tenantSlug, userID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set("tenant_id", tenant.ID)
		c.Set("tenant", tenant)

		// Services and repositories read the tenant from the request context
		ctx := infraRepo.WithTenant(c.Request.Context(), tenant.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
