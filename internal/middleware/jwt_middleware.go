package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
)

const (
	workspaceKey = "workspace"
	// TokenExpiresKey holds the expiry of the request's token.
	TokenExpiresKey = "token_expires_at"
)

// JWTMiddleware authenticates console requests and attaches the session's
// workspace and notification queue to the context.
type JWTMiddleware struct {
	tokens     *utils.TokenIssuer
	auth       *service.AuthService
	workspaces *service.WorkspaceRegistry
}

func NewJWTMiddleware(tokens *utils.TokenIssuer, auth *service.AuthService, workspaces *service.WorkspaceRegistry) *JWTMiddleware {
	return &JWTMiddleware{tokens: tokens, auth: auth, workspaces: workspaces}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		revoked, err := m.auth.Revoked(c.Request.Context(), claims.SessionID)
		if err != nil {
			log.Error().Err(err).Str("session_id", claims.SessionID).Msg("Session revocation check failed")
			utils.Error(c, 503, "SERVICE_UNAVAILABLE", "Unable to verify session")
			c.Abort()
			return
		}
		if revoked {
			utils.Error(c, 401, "SESSION_REVOKED", "Session has been logged out")
			c.Abort()
			return
		}

		ws := m.workspaces.Get(c.Request.Context(), claims.SessionID, claims.Email)
		c.Set("email", claims.Email)
		c.Set("session_id", claims.SessionID)
		if claims.ExpiresAt != nil {
			c.Set(TokenExpiresKey, claims.ExpiresAt.Time)
		}
		c.Set(workspaceKey, ws)
		c.Set(utils.NotifierKey, ws.Notifications)
		c.Next()
	}
}

// GetWorkspace returns the authenticated session's workspace.
func GetWorkspace(c *gin.Context) *service.Workspace {
	v, _ := c.Get(workspaceKey)
	if v == nil {
		return nil
	}
	return v.(*service.Workspace)
}
