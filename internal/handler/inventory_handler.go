package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offline_console/internal/middleware"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
)

// InventoryHandler serves the product screen.
type InventoryHandler struct {
	*TableHandler[models.Product]
}

func NewInventoryHandler(workspaces *service.WorkspaceRegistry) *InventoryHandler {
	return &InventoryHandler{
		TableHandler: NewTableHandler(workspaces,
			func(ws *service.Workspace) tableScreen[models.Product] { return ws.Inventory },
			func(c *gin.Context, ws *service.Workspace) error { return ws.Inventory.Reload(c.Request.Context()) },
		),
	}
}

// Register mounts the inventory routes on g.
func (h *InventoryHandler) Register(g *gin.RouterGroup) {
	h.TableHandler.Register(g, true)
	g.GET("/detail/:productId", h.OpenDetail)
	g.DELETE("/detail", h.CloseDetail)
	g.GET("/detail/sku/:modelId", h.OpenSKU)
	g.DELETE("/detail/sku", h.CloseSKU)
	g.GET("/sku-options", h.SKUOptions)
	g.GET("/create", h.CreateForm)
	g.PATCH("/create", h.EditCreate)
	g.POST("/create", h.SubmitCreate)
	g.DELETE("/create", h.DiscardCreate)
}

func (h *InventoryHandler) OpenDetail(c *gin.Context) {
	s := middleware.GetWorkspace(c).Inventory
	if err := s.OpenDetail(c.Request.Context(), c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", s.Detail.Snapshot())
}

func (h *InventoryHandler) CloseDetail(c *gin.Context) {
	s := middleware.GetWorkspace(c).Inventory
	s.Detail.Close()
	utils.Success(c, http.StatusOK, "OK", s.Detail.Snapshot())
}

func (h *InventoryHandler) OpenSKU(c *gin.Context) {
	s := middleware.GetWorkspace(c).Inventory
	if err := s.OpenSKU(c.Request.Context(), c.Param("modelId")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", s.SKUDetail.Snapshot())
}

func (h *InventoryHandler) CloseSKU(c *gin.Context) {
	s := middleware.GetWorkspace(c).Inventory
	s.SKUDetail.Close()
	utils.Success(c, http.StatusOK, "OK", s.SKUDetail.Snapshot())
}

func (h *InventoryHandler) SKUOptions(c *gin.Context) {
	skus, err := middleware.GetWorkspace(c).Inventory.SKUOptions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", skus)
}

func (h *InventoryHandler) CreateForm(c *gin.Context) {
	utils.Success(c, http.StatusOK, "OK", middleware.GetWorkspace(c).Inventory.Create.State())
}

// EditCreate applies field edits to the product draft.
func (h *InventoryHandler) EditCreate(c *gin.Context) {
	var patch models.ProductPatch
	if !bindJSON(c, &patch) {
		return
	}
	f := middleware.GetWorkspace(c).Inventory.Create
	f.Edit(patch.Apply)
	utils.Success(c, http.StatusOK, "OK", f.State())
}

// SubmitCreate sends the product draft. Validation and upstream failures are
// also reported through the notifications of the response.
func (h *InventoryHandler) SubmitCreate(c *gin.Context) {
	s := middleware.GetWorkspace(c).Inventory
	res, err := s.SubmitCreate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, res.Message, s.Create.State())
}

func (h *InventoryHandler) DiscardCreate(c *gin.Context) {
	f := middleware.GetWorkspace(c).Inventory.Create
	f.Reset()
	utils.Success(c, http.StatusOK, "OK", f.State())
}
