package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offline_console/internal/middleware"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
)

// StocksHandler serves the SKU screen.
type StocksHandler struct {
	*TableHandler[models.SKU]
}

func NewStocksHandler(workspaces *service.WorkspaceRegistry) *StocksHandler {
	return &StocksHandler{
		TableHandler: NewTableHandler(workspaces,
			func(ws *service.Workspace) tableScreen[models.SKU] { return ws.Stocks },
			func(c *gin.Context, ws *service.Workspace) error { return ws.Stocks.Reload(c.Request.Context()) },
		),
	}
}

// Register mounts the stocks routes on g.
func (h *StocksHandler) Register(g *gin.RouterGroup) {
	h.TableHandler.Register(g, true)
	g.GET("/detail/:modelId", h.OpenDetail)
	g.DELETE("/detail", h.CloseDetail)
	g.GET("/create", h.CreateForm)
	g.PATCH("/create", h.EditCreate)
	g.POST("/create", h.SubmitCreate)
	g.DELETE("/create", h.DiscardCreate)
	g.GET("/edit/:modelId", h.BeginEdit)
	g.PATCH("/edit", h.PatchEdit)
	g.POST("/edit/submit", h.SubmitEdit)
	g.DELETE("/edit", h.DiscardEdit)
}

func (h *StocksHandler) OpenDetail(c *gin.Context) {
	s := middleware.GetWorkspace(c).Stocks
	if err := s.OpenDetail(c.Request.Context(), c.Param("modelId")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", s.Detail.Snapshot())
}

func (h *StocksHandler) CloseDetail(c *gin.Context) {
	s := middleware.GetWorkspace(c).Stocks
	s.Detail.Close()
	utils.Success(c, http.StatusOK, "OK", s.Detail.Snapshot())
}

func (h *StocksHandler) CreateForm(c *gin.Context) {
	utils.Success(c, http.StatusOK, "OK", middleware.GetWorkspace(c).Stocks.Create.State())
}

func (h *StocksHandler) EditCreate(c *gin.Context) {
	var patch models.SKUPatch
	if !bindJSON(c, &patch) {
		return
	}
	f := middleware.GetWorkspace(c).Stocks.Create
	f.Edit(patch.Apply)
	utils.Success(c, http.StatusOK, "OK", f.State())
}

func (h *StocksHandler) SubmitCreate(c *gin.Context) {
	s := middleware.GetWorkspace(c).Stocks
	res, err := s.SubmitCreate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, res.Message, s.Create.State())
}

func (h *StocksHandler) DiscardCreate(c *gin.Context) {
	f := middleware.GetWorkspace(c).Stocks.Create
	f.Reset()
	utils.Success(c, http.StatusOK, "OK", f.State())
}

// BeginEdit seeds the edit form from the fetched SKU.
func (h *StocksHandler) BeginEdit(c *gin.Context) {
	s := middleware.GetWorkspace(c).Stocks
	if err := s.BeginEdit(c.Request.Context(), c.Param("modelId")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", s.Edit.State())
}

func (h *StocksHandler) PatchEdit(c *gin.Context) {
	var patch models.SKUPatch
	if !bindJSON(c, &patch) {
		return
	}
	state, err := middleware.GetWorkspace(c).Stocks.PatchEdit(patch)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "OK", state)
}

func (h *StocksHandler) SubmitEdit(c *gin.Context) {
	s := middleware.GetWorkspace(c).Stocks
	res, err := s.SubmitEdit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, res.Message, s.Edit.State())
}

func (h *StocksHandler) DiscardEdit(c *gin.Context) {
	s := middleware.GetWorkspace(c).Stocks
	s.DiscardEdit()
	utils.Success(c, http.StatusOK, "OK", s.Edit.State())
}
