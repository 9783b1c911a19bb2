package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
)

// ActivityHandler lists the console activity log.
type ActivityHandler struct {
	activity *service.ActivityService
}

func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List returns recent entries. Query: screen, limit.
func (h *ActivityHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.activity.Recent(c.Request.Context(), c.Query("screen"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", gin.H{
		"enabled": h.activity.Enabled(),
		"entries": logs,
	})
}
