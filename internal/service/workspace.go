package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/cache"
	"github.com/GTDGit/offline_console/internal/config"
	"github.com/GTDGit/offline_console/internal/notify"
	"github.com/GTDGit/offline_console/internal/tableview"
)

// viewStore persists table view state per session. *cache.SessionCache
// implements it.
type viewStore interface {
	SaveView(ctx context.Context, sessionID, screen string, state tableview.ViewState) error
	LoadView(ctx context.Context, sessionID, screen string) (*cache.ViewSnapshot, error)
	DeleteViews(ctx context.Context, sessionID string, screens ...string) error
}

// Workspace is the console state of one login session: the three screens and
// the notifications waiting for the next response.
type Workspace struct {
	SessionID     string
	Email         string
	Notifications *notify.Queue

	Inventory *InventoryScreen
	Stocks    *StocksScreen
	Billing   *BillingScreen

	mu       sync.Mutex
	lastUsed time.Time
}

// Screen returns the table half of the named screen.
func (w *Workspace) Screen(name string) (TableScreen, bool) {
	switch name {
	case ScreenInventory:
		return w.Inventory, true
	case ScreenStocks:
		return w.Stocks, true
	case ScreenBilling:
		return w.Billing, true
	}
	return nil, false
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastUsed = now
	w.mu.Unlock()
}

// LastUsed returns when the workspace was last handed out.
func (w *Workspace) LastUsed() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// WorkspaceRegistry hands out one Workspace per session, creating it on first
// use and restoring persisted view state.
type WorkspaceRegistry struct {
	mu    sync.Mutex
	items map[string]*Workspace

	api       OfflineAPI
	postal    PostalLookup
	documents *DocumentService
	activity  *ActivityService
	views     viewStore
	screens   config.ScreenConfig
	idle      time.Duration
	now       func() time.Time
}

// NewWorkspaceRegistry creates a registry. views may be nil, in which case
// view state lives only as long as the workspace.
func NewWorkspaceRegistry(
	api OfflineAPI,
	postal PostalLookup,
	documents *DocumentService,
	activity *ActivityService,
	views *cache.SessionCache,
	screens config.ScreenConfig,
	idle time.Duration,
) *WorkspaceRegistry {
	r := &WorkspaceRegistry{
		items:     make(map[string]*Workspace),
		api:       api,
		postal:    postal,
		documents: documents,
		activity:  activity,
		screens:   screens,
		idle:      idle,
		now:       time.Now,
	}
	if views != nil {
		r.views = views
	}
	return r
}

// Get returns the workspace of sessionID, creating it if needed.
func (r *WorkspaceRegistry) Get(ctx context.Context, sessionID, email string) *Workspace {
	r.mu.Lock()
	ws, ok := r.items[sessionID]
	if !ok {
		ws = r.build(sessionID, email)
		r.items[sessionID] = ws
	}
	r.mu.Unlock()

	ws.touch(r.now())
	if !ok {
		r.restore(ctx, ws)
		log.Info().Str("session_id", sessionID).Str("email", email).Msg("Workspace created")
	}
	return ws
}

func (r *WorkspaceRegistry) build(sessionID, email string) *Workspace {
	q := notify.NewQueue()
	deps := ScreenDeps{
		API:       r.api,
		Postal:    r.postal,
		Documents: r.documents,
		Activity:  r.activity,
		Notifier:  q,
		Actor:     email,
		SelectAll: selectAllScope(r.screens.SelectAllScope),
	}
	return &Workspace{
		SessionID:     sessionID,
		Email:         email,
		Notifications: q,
		Inventory:     NewInventoryScreen(deps, r.screens.InventoryPageSize),
		Stocks:        NewStocksScreen(deps, r.screens.StocksPageSize),
		Billing:       NewBillingScreen(deps, r.screens.BillingPageSize),
	}
}

func selectAllScope(s string) tableview.SelectAllScope {
	if s == config.SelectAllLoaded {
		return tableview.SelectLoaded
	}
	return tableview.SelectFiltered
}

func (r *WorkspaceRegistry) restore(ctx context.Context, ws *Workspace) {
	if r.views == nil {
		return
	}
	for _, name := range []string{ScreenInventory, ScreenStocks, ScreenBilling} {
		snap, err := r.views.LoadView(ctx, ws.SessionID, name)
		if err != nil {
			if !errors.Is(err, cache.ErrMiss) {
				log.Warn().Err(err).Str("screen", name).Msg("Failed to restore view state")
			}
			continue
		}
		screen, _ := ws.Screen(name)
		screen.RestoreView(snap.State)
	}
}

// Persist saves the view state of one screen. Failures are logged only.
func (r *WorkspaceRegistry) Persist(ctx context.Context, ws *Workspace, screen TableScreen) {
	if r.views == nil {
		return
	}
	if err := r.views.SaveView(ctx, ws.SessionID, screen.Name(), screen.ViewState()); err != nil {
		log.Warn().Err(err).Str("screen", screen.Name()).Msg("Failed to persist view state")
	}
}

// Drop removes a workspace and its persisted view state, e.g. on logout.
func (r *WorkspaceRegistry) Drop(ctx context.Context, sessionID string) {
	r.mu.Lock()
	delete(r.items, sessionID)
	r.mu.Unlock()
	if r.views == nil {
		return
	}
	if err := r.views.DeleteViews(ctx, sessionID, ScreenInventory, ScreenStocks, ScreenBilling); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to delete view state")
	}
}

// Sweep evicts workspaces idle for longer than the idle timeout and returns
// how many were evicted. Persisted view state survives eviction.
func (r *WorkspaceRegistry) Sweep() int {
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, ws := range r.items {
		if ws.LastUsed().Before(cutoff) {
			delete(r.items, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live workspaces.
func (r *WorkspaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
