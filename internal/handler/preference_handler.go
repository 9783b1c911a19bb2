package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offline_console/internal/cache"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
)

// PreferenceHandler serves the theme preference.
type PreferenceHandler struct {
	preferences *service.PreferenceService
}

func NewPreferenceHandler(preferences *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences}
}

func (h *PreferenceHandler) GetTheme(c *gin.Context) {
	theme, err := h.preferences.Theme(c.Request.Context(), c.GetString("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", gin.H{"theme": theme})
}

func (h *PreferenceHandler) SetTheme(c *gin.Context) {
	var req struct {
		Theme cache.Theme `json:"theme" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.preferences.SetTheme(c.Request.Context(), c.GetString("email"), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Theme saved", gin.H{"theme": req.Theme})
}
