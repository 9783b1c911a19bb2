package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offline_console/internal/middleware"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
)

// BillingHandler serves the invoice screen.
type BillingHandler struct {
	*TableHandler[models.Billing]
}

func NewBillingHandler(workspaces *service.WorkspaceRegistry) *BillingHandler {
	return &BillingHandler{
		TableHandler: NewTableHandler(workspaces,
			func(ws *service.Workspace) tableScreen[models.Billing] { return ws.Billing },
			func(c *gin.Context, ws *service.Workspace) error { return ws.Billing.Reload(c.Request.Context()) },
		),
	}
}

// Register mounts the billing routes on g. Invoices have no bulk delete.
func (h *BillingHandler) Register(g *gin.RouterGroup) {
	h.TableHandler.Register(g, false)
	g.GET("/detail/:billingId", h.OpenDetail)
	g.DELETE("/detail", h.CloseDetail)
	g.PUT("/detail/status", h.AdvanceStatus)
	g.GET("/detail/sku/:modelId", h.OpenSKU)
	g.DELETE("/detail/sku", h.CloseSKU)
	g.GET("/document/:billingId", h.Document)

	g.POST("/draft", h.StartDraft)
	g.GET("/draft", h.GetDraft)
	g.PATCH("/draft", h.PatchDraft)
	g.POST("/draft/particulars", h.AddParticular)
	g.PATCH("/draft/particulars/:index", h.PatchParticular)
	g.DELETE("/draft/particulars/:index", h.RemoveParticular)
	g.POST("/draft/submit", h.SubmitDraft)
	g.DELETE("/draft", h.DiscardDraft)
}

func (h *BillingHandler) OpenDetail(c *gin.Context) {
	s := middleware.GetWorkspace(c).Billing
	if err := s.OpenDetail(c.Request.Context(), c.Param("billingId")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", s.Detail.Snapshot())
}

func (h *BillingHandler) CloseDetail(c *gin.Context) {
	s := middleware.GetWorkspace(c).Billing
	s.Detail.Close()
	utils.Success(c, http.StatusOK, "OK", s.Detail.Snapshot())
}

// AdvanceStatus moves the open invoice to the next status.
func (h *BillingHandler) AdvanceStatus(c *gin.Context) {
	var req struct {
		Status models.BillingStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ws := middleware.GetWorkspace(c)
	rec, err := ws.Billing.AdvanceStatus(c.Request.Context(), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Status updated", rec)
}

func (h *BillingHandler) OpenSKU(c *gin.Context) {
	s := middleware.GetWorkspace(c).Billing
	if err := s.OpenSKU(c.Request.Context(), c.Param("modelId")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", s.SKUDetail.Snapshot())
}

func (h *BillingHandler) CloseSKU(c *gin.Context) {
	s := middleware.GetWorkspace(c).Billing
	s.SKUDetail.Close()
	utils.Success(c, http.StatusOK, "OK", s.SKUDetail.Snapshot())
}

// Document returns a link to the invoice PDF.
func (h *BillingHandler) Document(c *gin.Context) {
	link, err := middleware.GetWorkspace(c).Billing.Document(c.Request.Context(), c.Param("billingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", link)
}

// StartDraft opens a new invoice draft with the product options. A failed
// product fetch still opens the draft; the response carries the notification.
func (h *BillingHandler) StartDraft(c *gin.Context) {
	view, err := middleware.GetWorkspace(c).Billing.StartDraft(c.Request.Context())
	if err != nil && view.Form.Seeded {
		utils.Success(c, http.StatusCreated, "Draft opened without product options", view)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "OK", view)
}

func (h *BillingHandler) GetDraft(c *gin.Context) {
	h.respondDraft(c)(middleware.GetWorkspace(c).Billing.DraftView())
}

func (h *BillingHandler) PatchDraft(c *gin.Context) {
	var patch models.BillingPatch
	if !bindJSON(c, &patch) {
		return
	}
	h.respondDraft(c)(middleware.GetWorkspace(c).Billing.PatchDraft(c.Request.Context(), patch))
}

func (h *BillingHandler) AddParticular(c *gin.Context) {
	h.respondDraft(c)(middleware.GetWorkspace(c).Billing.AddParticular())
}

func (h *BillingHandler) PatchParticular(c *gin.Context) {
	index, ok := particularIndex(c)
	if !ok {
		return
	}
	var patch models.ParticularPatch
	if !bindJSON(c, &patch) {
		return
	}
	h.respondDraft(c)(middleware.GetWorkspace(c).Billing.PatchParticular(index, patch))
}

func (h *BillingHandler) RemoveParticular(c *gin.Context) {
	index, ok := particularIndex(c)
	if !ok {
		return
	}
	h.respondDraft(c)(middleware.GetWorkspace(c).Billing.RemoveParticular(index))
}

func (h *BillingHandler) SubmitDraft(c *gin.Context) {
	res, err := middleware.GetWorkspace(c).Billing.SubmitDraft(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, res.Message, nil)
}

func (h *BillingHandler) DiscardDraft(c *gin.Context) {
	middleware.GetWorkspace(c).Billing.DiscardDraft()
	utils.Success(c, http.StatusOK, "Draft discarded", nil)
}

func (h *BillingHandler) respondDraft(c *gin.Context) func(service.DraftView, error) {
	return func(view service.DraftView, err error) {
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "OK", view)
	}
}

func particularIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid particular index")
		return 0, false
	}
	return index, true
}
