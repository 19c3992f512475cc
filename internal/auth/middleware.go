package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carbon-ledger/supplier-portal/supplier-portal-backend/internal/httperr"
)

const (
	ContextUserID    = "user_id"
	ContextCompanyID = "company_id"
)

// Middleware validates the bearer token and stores the caller's identity in
// the request context. A 401 here tells clients to clear stored credentials.
func Middleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httperr.Unauthorized(c, "missing authorization header")
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			httperr.Unauthorized(c, "authorization header must be a bearer token")
			return
		}

		claims, err := service.ParseToken(tokenString)
		if err != nil {
			httperr.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextCompanyID, claims.CompanyID)
		c.Next()
	}
}

// CallerUserID returns the authenticated user id from the request context.
func CallerUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// CallerCompanyID returns the authenticated user's company id.
func CallerCompanyID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextCompanyID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
