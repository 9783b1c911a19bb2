package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offline_console/internal/middleware"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/tableview"
	"github.com/GTDGit/offline_console/internal/utils"
)

// tableScreen is what a screen exposes to the shared table routes.
type tableScreen[T tableview.Record] interface {
	service.TableScreen
	Controller() *tableview.Controller[T]
}

// TableHandler serves the sort/filter/paginate/select/delete routes of one
// screen.
type TableHandler[T tableview.Record] struct {
	workspaces *service.WorkspaceRegistry
	pick       func(*service.Workspace) tableScreen[T]
	reload     func(*gin.Context, *service.Workspace) error
}

// NewTableHandler creates the table routes for the screen pick selects.
// reload performs the mount fetch.
func NewTableHandler[T tableview.Record](
	workspaces *service.WorkspaceRegistry,
	pick func(*service.Workspace) tableScreen[T],
	reload func(*gin.Context, *service.Workspace) error,
) *TableHandler[T] {
	return &TableHandler[T]{workspaces: workspaces, pick: pick, reload: reload}
}

// Register mounts the table routes on g. withDelete adds the bulk delete
// confirmation routes.
func (h *TableHandler[T]) Register(g *gin.RouterGroup, withDelete bool) {
	g.GET("", h.Mount)
	g.POST("/reload", h.Mount)
	g.POST("/sort", h.Sort)
	g.POST("/filter", h.Filter)
	g.POST("/page", h.Page)
	g.POST("/page-size", h.PageSize)
	g.POST("/dense", h.Dense)
	g.POST("/select", h.Select)
	g.POST("/select-all", h.SelectAll)
	if withDelete {
		g.POST("/delete", h.RequestDelete)
		g.POST("/delete/confirm", h.ConfirmDelete)
		g.POST("/delete/cancel", h.CancelDelete)
	}
}

// respondView writes the derived page. Pagination meta is one-based.
func (h *TableHandler[T]) respondView(c *gin.Context, screen tableScreen[T]) {
	v := screen.Controller().View()
	utils.SuccessWithPagination(c, http.StatusOK, "OK", v, v.State.Page+1, v.State.PageSize, v.Filtered)
}

// transition applies fn, persists the view state and responds with the view.
func (h *TableHandler[T]) transition(c *gin.Context, fn func(*tableview.Controller[T])) {
	ws := middleware.GetWorkspace(c)
	screen := h.pick(ws)
	fn(screen.Controller())
	h.workspaces.Persist(c.Request.Context(), ws, screen)
	h.respondView(c, screen)
}

// Mount fetches the full list and returns the view. On a failed fetch the
// previous rows stay loaded for the next view.
func (h *TableHandler[T]) Mount(c *gin.Context) {
	ws := middleware.GetWorkspace(c)
	if err := h.reload(c, ws); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, h.pick(ws))
}

func (h *TableHandler[T]) Sort(c *gin.Context) {
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, func(t *tableview.Controller[T]) { t.SetSort(req.Key) })
}

func (h *TableHandler[T]) Filter(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, func(t *tableview.Controller[T]) { t.SetFilter(req.Text) })
}

func (h *TableHandler[T]) Page(c *gin.Context) {
	var req struct {
		Page int `json:"page" binding:"min=0"`
	}
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, func(t *tableview.Controller[T]) { t.SetPage(req.Page) })
}

func (h *TableHandler[T]) PageSize(c *gin.Context) {
	var req struct {
		Size int `json:"size" binding:"required,oneof=5 10 25"`
	}
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, func(t *tableview.Controller[T]) { t.SetPageSize(req.Size) })
}

func (h *TableHandler[T]) Dense(c *gin.Context) {
	var req struct {
		Dense bool `json:"dense"`
	}
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, func(t *tableview.Controller[T]) { t.SetDense(req.Dense) })
}

func (h *TableHandler[T]) Select(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	h.transition(c, func(t *tableview.Controller[T]) { t.ToggleSelect(req.ID) })
}

func (h *TableHandler[T]) SelectAll(c *gin.Context) {
	h.transition(c, func(t *tableview.Controller[T]) { t.ToggleSelectAll() })
}

// RequestDelete opens the confirmation dialog for the selection.
func (h *TableHandler[T]) RequestDelete(c *gin.Context) {
	screen := h.pick(middleware.GetWorkspace(c))
	if err := screen.Controller().RequestDelete(); err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, screen)
}

// ConfirmDelete runs the pending bulk delete and returns the reloaded view.
func (h *TableHandler[T]) ConfirmDelete(c *gin.Context) {
	ws := middleware.GetWorkspace(c)
	screen := h.pick(ws)
	err := screen.Controller().ConfirmDelete(c.Request.Context())
	h.workspaces.Persist(c.Request.Context(), ws, screen)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, screen)
}

func (h *TableHandler[T]) CancelDelete(c *gin.Context) {
	screen := h.pick(middleware.GetWorkspace(c))
	screen.Controller().CancelDelete()
	h.respondView(c, screen)
}
