package httpserver

import (
	"net/http"
	"strings"

	"cardealer/internal/domain"
	authsvc "cardealer/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserIDKey = "userId"
	ctxRoleKey   = "role"

	sessionHeader = "x-session-id"
)

// requestID tags every response with an id for log correlation,
// honoring one supplied by the client.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// attachUser is the soft-auth middleware: a valid bearer token sets
// the user on the request context; an invalid or expired one is
// silently ignored so mixed guest/auth endpoints keep working.
func attachUser(tokens *authsvc.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			if userID, role, ok := tokens.Validate(strings.TrimPrefix(h, "Bearer ")); ok {
				c.Set(ctxUserIDKey, userID)
				c.Set(ctxRoleKey, role)
			}
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id != 0
}

func isAdmin(c *gin.Context) bool {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return false
	}
	role, ok := v.(domain.Role)
	return ok && role == domain.RoleAdmin
}

// requireAuth rejects requests without an authenticated user. A
// session id alone is not enough here.
func requireAuth(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

func requireAdmin(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !isAdmin(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	c.Next()
}

// identityOf resolves the acting identity for cart endpoints: the
// authenticated user when present, else the anonymous session header.
// When neither is present it writes the identity-missing error and
// reports false.
func identityOf(c *gin.Context) (domain.Identity, bool) {
	userID, _ := currentUserID(c)
	ident, ok := domain.ResolveIdentity(userID, c.GetHeader(sessionHeader))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing identity: provide Authorization Bearer token or x-session-id header",
		})
		return domain.Identity{}, false
	}
	return ident, true
}
