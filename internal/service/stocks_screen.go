package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/detail"
	"github.com/GTDGit/offline_console/internal/form"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/tableview"
	"github.com/GTDGit/offline_console/internal/utils"
)

// StocksScreen is the SKU list with its detail drawer and the create and edit
// forms.
type StocksScreen struct {
	screenTable[models.SKU]
	deps ScreenDeps

	Detail *detail.Panel[models.SKU]
	Create *form.Controller[models.SKUDraft]
	Edit   *form.Controller[models.SKUDraft]

	// editSource loads the record an edit form is seeded from, so a slow
	// fetch for a discarded edit never seeds the form.
	editSource *detail.Panel[models.SKU]
	editMu     sync.Mutex
}

// NewStocksScreen builds the stocks screen. Rows are fetched on Reload.
func NewStocksScreen(deps ScreenDeps, pageSize int) *StocksScreen {
	s := &StocksScreen{deps: deps}

	opts := withBulkDelete(tableview.Options[models.SKU]{
		Name:          ScreenStocks,
		List:          deps.API.ListSKUs,
		DeleteTitle:   "Delete SKUs",
		DeleteMessage: "Are you sure you want to delete the selected SKUs?",
		State:         tableview.NewViewState("modelId", pageSize, true),
		SelectAll:     deps.SelectAll,
	}, deps, deps.API.DeleteSKUs)
	s.screenTable = screenTable[models.SKU]{
		name:     ScreenStocks,
		Table:    tableview.NewController(opts),
		notifier: deps.notifier(),
	}

	s.Detail = detail.New("sku", getSKU(deps.API))
	s.editSource = detail.New("sku-edit", getSKU(deps.API))

	s.Create = form.New(form.Options[models.SKUDraft]{
		Name:         "sku-create",
		Mode:         form.ModeCreate,
		Empty:        func() models.SKUDraft { return models.SKUDraft{InStock: true} },
		Submit:       s.createSKU,
		Notifier:     deps.notifier(),
		SuccessTitle: "Created successfully",
		NavigateTo:   "/stocks",
	})
	s.Edit = form.New(form.Options[models.SKUDraft]{
		Name:         "sku-edit",
		Mode:         form.ModeEdit,
		Submit:       s.updateSKU,
		Notifier:     deps.notifier(),
		SuccessTitle: "Updated successfully",
		NavigateTo:   "/stocks",
	})
	return s
}

func (s *StocksScreen) createSKU(ctx context.Context, d models.SKUDraft) (form.Result, error) {
	// Model ids are checked against the full list, so fetch it if the table
	// was never shown.
	if !s.Table.Loaded() {
		if err := s.Table.Load(ctx); err != nil {
			return form.Result{}, err
		}
	}
	d.ModelID = utils.NewUniqueModelID(s.Table.Has)
	msg, err := s.deps.API.CreateSKU(ctx, d)
	s.deps.record(ctx, ScreenStocks, "create_sku", []string{d.ModelID}, err, msg)
	if err != nil {
		return form.Result{}, err
	}
	return form.Result{Message: msg}, nil
}

func (s *StocksScreen) updateSKU(ctx context.Context, d models.SKUDraft) (form.Result, error) {
	id := d.ModelID
	updated, msg, err := s.deps.API.UpdateSKU(ctx, id, d)
	s.deps.record(ctx, ScreenStocks, "update_sku", []string{id}, err, msg)
	if err != nil {
		return form.Result{}, err
	}

	if updated != nil {
		s.Table.Update(id, func(models.SKU) models.SKU { return *updated })
		aerr := s.Detail.Apply(func(cur models.SKU) models.SKU {
			if cur.ModelID != id {
				return cur
			}
			return *updated
		})
		if aerr != nil {
			log.Debug().Err(aerr).Str("model_id", id).Msg("SKU panel closed before update ack")
		}
	} else if lerr := s.Table.Load(ctx); lerr != nil {
		log.Warn().Err(lerr).Msg("Stocks reload after update failed")
	}
	return form.Result{Message: msg}, nil
}

// OpenDetail shows one SKU.
func (s *StocksScreen) OpenDetail(ctx context.Context, modelID string) error {
	return openPanel(ctx, s.Detail, s.notifier, modelID)
}

// SubmitCreate submits the create form and refreshes the list on success.
func (s *StocksScreen) SubmitCreate(ctx context.Context) (form.Result, error) {
	res, err := s.Create.Submit(ctx)
	if err != nil {
		return res, err
	}
	if lerr := s.Table.Load(ctx); lerr != nil {
		log.Warn().Err(lerr).Msg("Stocks reload after create failed")
	}
	return res, nil
}

// BeginEdit fetches the SKU and seeds the edit form with it.
func (s *StocksScreen) BeginEdit(ctx context.Context, modelID string) error {
	s.editMu.Lock()
	s.Edit.Reset()
	s.editMu.Unlock()

	if err := openPanel(ctx, s.editSource, s.notifier, modelID); err != nil {
		return err
	}
	s.editMu.Lock()
	defer s.editMu.Unlock()
	rec, ok := s.editSource.Record()
	if !ok || rec.ModelID != modelID {
		return detail.ErrStale
	}
	s.Edit.Seed(models.DraftFromSKU(rec))
	return nil
}

// PatchEdit applies field edits to the edit form.
func (s *StocksScreen) PatchEdit(p models.SKUPatch) (form.State[models.SKUDraft], error) {
	if !s.Edit.State().Seeded {
		return form.State[models.SKUDraft]{}, form.ErrNotSeeded
	}
	s.Edit.Edit(p.Apply)
	return s.Edit.State(), nil
}

// SubmitEdit sends the edit form.
func (s *StocksScreen) SubmitEdit(ctx context.Context) (form.Result, error) {
	return s.Edit.Submit(ctx)
}

// DiscardEdit drops the edit form and any fetch seeding it.
func (s *StocksScreen) DiscardEdit() {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	s.editSource.Close()
	s.Edit.Reset()
}
