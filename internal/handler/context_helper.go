package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kelasworks/sis-api/internal/middleware"
	"github.com/kelasworks/sis-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// organizationScope resolves the tenant for the request. The claim always
// wins; a query value is only honoured when no claim is attached.
func organizationScope(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil && claims.OrganizationID != "" {
		return claims.OrganizationID
	}
	return c.Query("organizationId")
}
