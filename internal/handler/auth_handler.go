package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/middleware"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	workspaces  *service.WorkspaceRegistry
	rateLimiter *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService *service.AuthService, workspaces *service.WorkspaceRegistry, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, workspaces: workspaces, rateLimiter: rateLimiter}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	session, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			if !h.rateLimiter.Allow(c.ClientIP()) {
				utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
				return
			}
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to issue token")
		return
	}

	utils.Success(c, 200, "Login successful", session)
}

// Logout revokes the session's token and drops its workspace and saved view
// state.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := c.GetString("session_id")
	if err := h.authService.Logout(c.Request.Context(), sid, c.GetTime(middleware.TokenExpiresKey)); err != nil {
		log.Error().Err(err).Str("session_id", sid).Msg("Failed to revoke session")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to log out")
		return
	}
	h.workspaces.Drop(c.Request.Context(), sid)
	utils.Success(c, 200, "Logged out", nil)
}
