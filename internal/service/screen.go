package service

import (
	"context"
	"errors"

	"github.com/GTDGit/offline_console/internal/detail"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/notify"
	"github.com/GTDGit/offline_console/internal/tableview"
)

// Screen names, also used as cache keys and activity log screens.
const (
	ScreenInventory = "inventory"
	ScreenStocks    = "stocks"
	ScreenBilling   = "billing"
)

// ErrNotInRecord is returned when opening a nested SKU the parent record does
// not reference.
var ErrNotInRecord = errors.New("sku is not part of the shown record")

// ScreenDeps are shared by every screen of one workspace.
type ScreenDeps struct {
	API       OfflineAPI
	Postal    PostalLookup
	Documents *DocumentService
	Activity  *ActivityService
	Notifier  notify.Notifier
	// Actor is the admin email written to the activity log.
	Actor string
	// SelectAll is the select-all scope of every table.
	SelectAll tableview.SelectAllScope
}

func (d ScreenDeps) notifier() notify.Notifier {
	if d.Notifier == nil {
		return notify.Discard{}
	}
	return d.Notifier
}

// record writes an activity entry for a mutation outcome.
func (d ScreenDeps) record(ctx context.Context, screen, action string, ids []string, err error, message string) {
	entry := models.ActivityLog{
		Actor:     d.Actor,
		Screen:    screen,
		Action:    action,
		EntityIDs: ids,
		Outcome:   models.OutcomeSuccess,
		Message:   message,
	}
	if err != nil {
		entry.Outcome = models.OutcomeFailure
		entry.Message = err.Error()
	}
	d.Activity.Record(ctx, entry)
}

const msgDeleted = "Selected records were deleted."

// withBulkDelete wires a table's delete endpoint, notifications and activity
// log into opts.
func withBulkDelete[T tableview.Record](opts tableview.Options[T], d ScreenDeps, del func(ctx context.Context, ids []string) (string, error)) tableview.Options[T] {
	opts.Delete = func(ctx context.Context, ids []string) error {
		_, err := del(ctx, ids)
		return err
	}
	opts.OnDeleted = func(ctx context.Context, ids []string) {
		d.notifier().Notify(notify.Success("Deleted successfully", msgDeleted, ""))
		d.record(ctx, opts.Name, "bulk_delete", ids, nil, msgDeleted)
	}
	opts.OnDeleteFailed = func(ctx context.Context, ids []string, err error) {
		d.notifier().Notify(notify.Error(notify.MsgProblemDeleting))
		d.record(ctx, opts.Name, "bulk_delete", ids, err, "")
	}
	opts.OnReloadFailed = func(context.Context, error) {
		d.notifier().Notify(notifyLoading())
	}
	return opts
}

// TableScreen is the table half of a screen, as seen by the workspace.
type TableScreen interface {
	Name() string
	ViewState() tableview.ViewState
	RestoreView(s tableview.ViewState)
}

// screenTable embeds the table controller of one screen.
type screenTable[T tableview.Record] struct {
	name     string
	Table    *tableview.Controller[T]
	notifier notify.Notifier
}

func (s *screenTable[T]) Name() string { return s.name }

// Controller returns the table controller.
func (s *screenTable[T]) Controller() *tableview.Controller[T] { return s.Table }

func (s *screenTable[T]) ViewState() tableview.ViewState { return s.Table.State() }

func (s *screenTable[T]) RestoreView(v tableview.ViewState) { s.Table.Restore(v) }

// Reload fetches the full list. Every mount calls it; rows are never cached
// across mounts.
func (s *screenTable[T]) Reload(ctx context.Context) error {
	if err := s.Table.Load(ctx); err != nil {
		s.notifier.Notify(notifyLoading())
		return err
	}
	return nil
}

// openPanel opens p and turns fetch failures into a loading notification.
// A superseded fetch is silent.
func openPanel[T any](ctx context.Context, p *detail.Panel[T], n notify.Notifier, id string) error {
	err := p.Open(ctx, id)
	if err != nil && !errors.Is(err, detail.ErrStale) {
		n.Notify(notifyLoading())
	}
	return err
}

func notifyLoading() notify.Notification {
	return notify.Error(notify.MsgProblemLoading)
}
