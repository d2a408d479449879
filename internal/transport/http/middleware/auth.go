package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
)

// ErrorResponse mirrors the handlers.ErrorResponse structure.
type ErrorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{
		Message: message,
		TraceID: GetTraceID(c),
	}
}

// TokenResolver verifies a bearer token and returns the live identity behind
// it. A valid signature over a deleted identity must fail.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*domain.Identity, error)
}

// RequireAuth validates the Authorization header and loads the authenticated
// identity into the request context. Every failure mode answers 401; the
// caller never learns whether the token or the account was the problem.
func RequireAuth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid authorization format: expected 'Bearer <token>'"))
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing access token"))
			return
		}

		identity, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "invalid or expired token"))
			return
		}

		c.Set(IdentityKey, identity)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.IdentityID = identity.ID
		}

		c.Next()
	}
}

// RequireAdmin rejects requests whose authenticated identity is not an admin.
// It must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := AuthenticatedIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "admin access required"))
			return
		}

		c.Next()
	}
}

// AuthenticatedIdentity retrieves the identity stored by RequireAuth, or nil.
func AuthenticatedIdentity(c *gin.Context) *domain.Identity {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}
