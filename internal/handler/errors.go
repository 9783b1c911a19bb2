package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/confirm"
	"github.com/GTDGit/offline_console/internal/detail"
	"github.com/GTDGit/offline_console/internal/form"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/tableview"
	"github.com/GTDGit/offline_console/internal/utils"
	"github.com/GTDGit/offline_console/pkg/offline"
)

// respondError maps a console error to the response envelope. Upstream
// failures are reported generically; their detail is only logged.
func respondError(c *gin.Context, err error) {
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.Error(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", verr.Message)
	case errors.Is(err, form.ErrSubmitInFlight):
		utils.Error(c, http.StatusConflict, "SUBMIT_IN_FLIGHT", "A submission is already in progress")
	case errors.Is(err, form.ErrNotDirty):
		utils.Error(c, http.StatusConflict, "NOT_DIRTY", "Nothing has changed")
	case errors.Is(err, form.ErrNotSeeded):
		utils.Error(c, http.StatusConflict, "NO_EDIT_FORM", "No record is being edited")
	case errors.Is(err, detail.ErrStale):
		utils.Error(c, http.StatusConflict, "STALE", "The request was superseded")
	case errors.Is(err, detail.ErrClosed):
		utils.Error(c, http.StatusConflict, "DETAIL_CLOSED", "No record is open")
	case errors.Is(err, confirm.ErrNotOpen):
		utils.Error(c, http.StatusConflict, "NO_CONFIRMATION", "Nothing is waiting for confirmation")
	case errors.Is(err, tableview.ErrNothingSelected):
		utils.Error(c, http.StatusBadRequest, "NOTHING_SELECTED", "No rows selected")
	case errors.Is(err, tableview.ErrDeleteUnsupported):
		utils.Error(c, http.StatusMethodNotAllowed, "DELETE_UNSUPPORTED", "Bulk delete is not available here")
	case errors.Is(err, models.ErrStatusTerminal),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrUnknownBillingState):
		utils.Error(c, http.StatusUnprocessableEntity, "INVALID_STATUS", err.Error())
	case errors.Is(err, service.ErrNotInRecord):
		utils.Error(c, http.StatusNotFound, "NOT_IN_RECORD", "SKU is not part of the open record")
	case errors.Is(err, offline.ErrNotFound):
		utils.Error(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, utils.ErrNoDraft):
		utils.Error(c, http.StatusConflict, "NO_DRAFT", "No draft is open")
	case errors.Is(err, utils.ErrParticularIndex):
		utils.Error(c, http.StatusNotFound, "PARTICULAR_NOT_FOUND", "No such particular")
	case errors.Is(err, utils.ErrDocumentUnavailable):
		utils.Error(c, http.StatusNotFound, "DOCUMENT_UNAVAILABLE", "No document for this record")
	case errors.Is(err, service.ErrInvalidTheme):
		utils.Error(c, http.StatusBadRequest, "INVALID_THEME", err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Upstream request failed")
		utils.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream request failed")
	}
}

// bindJSON binds the request body or writes a 400.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return false
	}
	return true
}
