package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wedplan/pkg/utils"
)

const (
	ContextUserID      = "user_id"
	ContextWorkspaceID = "workspace_id"
	ContextRole        = "Role"
)

// JWTAuthMiddleware requires a bearer token and stores its user and
// workspace ids on the context.
func JWTAuthMiddleware(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		claims, err := issuer.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}
		workspaceID, err := uuid.Parse(claims.WorkspaceID)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextWorkspaceID, workspaceID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func RoleMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != requiredRole {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Identity returns the authenticated user and workspace. ok is false on
// routes without JWTAuthMiddleware.
func Identity(c *gin.Context) (userID, workspaceID uuid.UUID, ok bool) {
	u, uok := c.Get(ContextUserID)
	w, wok := c.Get(ContextWorkspaceID)
	if !uok || !wok {
		return uuid.Nil, uuid.Nil, false
	}
	userID, uok = u.(uuid.UUID)
	workspaceID, wok = w.(uuid.UUID)
	return userID, workspaceID, uok && wok
}
