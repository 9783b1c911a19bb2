package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/detail"
	"github.com/GTDGit/offline_console/internal/form"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/notify"
	"github.com/GTDGit/offline_console/internal/tableview"
	"github.com/GTDGit/offline_console/internal/utils"
)

// zipcodeLength triggers the postal lookup on the billing draft.
const zipcodeLength = 6

// ProductOption is a product a billing particular can reference.
type ProductOption struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
}

// DraftView is the billing draft handed to a renderer.
type DraftView struct {
	Form     form.State[models.BillingDraft] `json:"form"`
	Products []ProductOption                 `json:"products"`
}

// BillingScreen is the invoice list with its detail drawer, the status
// control and the create draft.
type BillingScreen struct {
	screenTable[models.Billing]
	deps ScreenDeps

	Detail    *detail.Panel[models.Billing]
	SKUDetail *detail.Panel[models.SKU]

	mu       sync.Mutex
	draft    *form.Controller[models.BillingDraft]
	products []ProductOption
}

// NewBillingScreen builds the billing screen. Rows are fetched on Reload.
// Invoices have no bulk delete.
func NewBillingScreen(deps ScreenDeps, pageSize int) *BillingScreen {
	s := &BillingScreen{deps: deps}
	s.screenTable = screenTable[models.Billing]{
		name: ScreenBilling,
		Table: tableview.NewController(tableview.Options[models.Billing]{
			Name:      ScreenBilling,
			List:      deps.API.ListBillings,
			State:     tableview.NewViewState("generatedAt", pageSize, false),
			SelectAll: deps.SelectAll,
		}),
		notifier: deps.notifier(),
	}
	s.SKUDetail = detail.New("billing-sku", getSKU(deps.API))
	s.Detail = detail.New("billing", func(ctx context.Context, id string) (models.Billing, error) {
		b, err := deps.API.GetBilling(ctx, id)
		if err != nil {
			return models.Billing{}, err
		}
		return *b, nil
	}).Nest(s.SKUDetail)
	return s
}

// OpenDetail shows one invoice.
func (s *BillingScreen) OpenDetail(ctx context.Context, billingID string) error {
	return openPanel(ctx, s.Detail, s.notifier, billingID)
}

// OpenSKU shows a SKU from the open invoice.
func (s *BillingScreen) OpenSKU(ctx context.Context, modelID string) error {
	if _, ok := s.Detail.Record(); !ok {
		return detail.ErrClosed
	}
	return openPanel(ctx, s.SKUDetail, s.notifier, modelID)
}

// AdvanceStatus moves the open invoice one step forward. The new status is
// applied locally once the API acknowledges it, without a reload.
func (s *BillingScreen) AdvanceStatus(ctx context.Context, next models.BillingStatus) (*models.Billing, error) {
	rec, ok := s.Detail.Record()
	if !ok {
		return nil, detail.ErrClosed
	}
	if err := rec.Status.CanTransition(next); err != nil {
		return nil, err
	}

	id := rec.BillingID
	msg, err := s.deps.API.UpdateBillingStatus(ctx, id, next)
	s.deps.record(ctx, ScreenBilling, "update_status:"+string(next), []string{id}, err, msg)
	if err != nil {
		s.notifier.Notify(notify.Error(notify.MsgProblemSaving))
		return nil, err
	}

	setStatus := func(b models.Billing) models.Billing {
		if b.BillingID == id {
			b.Status = next
		}
		return b
	}
	if aerr := s.Detail.Apply(setStatus); aerr != nil {
		log.Debug().Str("billing_id", id).Msg("Billing panel closed before status ack")
	}
	s.Table.Update(id, setStatus)
	s.notifier.Notify(notify.Success("Updated successfully", msg, ""))

	rec = setStatus(rec)
	return &rec, nil
}

// Document resolves the invoice PDF link of billingID.
func (s *BillingScreen) Document(ctx context.Context, billingID string) (*DocumentLink, error) {
	if s.deps.Documents == nil {
		return nil, utils.ErrDocumentUnavailable
	}
	var docPath string
	if rec, ok := s.Detail.Record(); ok && rec.BillingID == billingID {
		docPath = rec.DocPath
	} else {
		b, err := s.deps.API.GetBilling(ctx, billingID)
		if err != nil {
			return nil, err
		}
		docPath = b.DocPath
	}
	return s.deps.Documents.Link(ctx, docPath)
}

// StartDraft opens a fresh billing draft and loads the product options. A
// failed product fetch still leaves the draft open with no options.
func (s *BillingScreen) StartDraft(ctx context.Context) (DraftView, error) {
	f := form.New(form.Options[models.BillingDraft]{
		Name:         "billing-create",
		Mode:         form.ModeCreate,
		Empty:        models.NewBillingDraft,
		Derive:       (*models.BillingDraft).Recompute,
		Submit:       s.createBilling,
		Notifier:     s.notifier,
		SuccessTitle: "Created successfully",
		NavigateTo:   "/billing",
	})
	s.mu.Lock()
	s.draft = f
	s.products = nil
	s.mu.Unlock()

	products, err := s.deps.API.ListProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load billing product options")
		s.notifier.Notify(notifyLoading())
	}
	opts := make([]ProductOption, 0, len(products))
	for _, p := range products {
		opts = append(opts, ProductOption{ProductID: p.ProductID, ProductName: p.ProductName})
	}

	s.mu.Lock()
	if s.draft == f {
		s.products = opts
	}
	s.mu.Unlock()

	view, verr := s.DraftView()
	if verr != nil {
		return DraftView{}, verr
	}
	return view, err
}

func (s *BillingScreen) createBilling(ctx context.Context, d models.BillingDraft) (form.Result, error) {
	msg, err := s.deps.API.CreateBilling(ctx, d.Payload())
	s.deps.record(ctx, ScreenBilling, "create_billing", nil, err, msg)
	if err != nil {
		return form.Result{}, err
	}
	return form.Result{Message: msg}, nil
}

func (s *BillingScreen) current() (*form.Controller[models.BillingDraft], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil, utils.ErrNoDraft
	}
	return s.draft, nil
}

// DraftView returns the open draft.
func (s *BillingScreen) DraftView() (DraftView, error) {
	f, err := s.current()
	if err != nil {
		return DraftView{}, err
	}
	s.mu.Lock()
	products := append([]ProductOption{}, s.products...)
	s.mu.Unlock()
	return DraftView{Form: f.State(), Products: products}, nil
}

// PatchDraft applies header edits. A zipcode of exactly six characters fills
// city and state from the postal lookup, unless the zipcode changed again
// while the lookup was running.
func (s *BillingScreen) PatchDraft(ctx context.Context, p models.BillingPatch) (DraftView, error) {
	f, err := s.current()
	if err != nil {
		return DraftView{}, err
	}
	f.Edit(p.Apply)

	if p.Zipcode != nil && len(*p.Zipcode) == zipcodeLength && s.deps.Postal != nil {
		zip := *p.Zipcode
		place, lerr := s.deps.Postal.Lookup(ctx, zip)
		if lerr != nil {
			log.Warn().Err(lerr).Str("zipcode", zip).Msg("Postal lookup failed")
		} else {
			f.Edit(func(d *models.BillingDraft) {
				if d.BillAddress.Zipcode != zip {
					return
				}
				d.BillAddress.City = place.Name
				d.BillAddress.State = place.State
			})
		}
	}
	return s.DraftView()
}

// AddParticular appends a blank line.
func (s *BillingScreen) AddParticular() (DraftView, error) {
	f, err := s.current()
	if err != nil {
		return DraftView{}, err
	}
	f.Edit(func(d *models.BillingDraft) {
		d.Particulars = append(d.Particulars, models.Particular{})
	})
	return s.DraftView()
}

// PatchParticular edits line index. Choosing a product fills its name.
func (s *BillingScreen) PatchParticular(index int, p models.ParticularPatch) (DraftView, error) {
	f, err := s.current()
	if err != nil {
		return DraftView{}, err
	}
	names := s.productNames()

	var rangeErr error
	f.Edit(func(d *models.BillingDraft) {
		if index < 0 || index >= len(d.Particulars) {
			rangeErr = utils.ErrParticularIndex
			return
		}
		line := &d.Particulars[index]
		p.Apply(line)
		if p.ProductID != nil {
			line.ProductName = names[line.ProductID]
		}
		line.Amount = line.LineTotal()
	})
	if rangeErr != nil {
		return DraftView{}, rangeErr
	}
	return s.DraftView()
}

// RemoveParticular deletes line index.
func (s *BillingScreen) RemoveParticular(index int) (DraftView, error) {
	f, err := s.current()
	if err != nil {
		return DraftView{}, err
	}
	var rangeErr error
	f.Edit(func(d *models.BillingDraft) {
		if index < 0 || index >= len(d.Particulars) {
			rangeErr = utils.ErrParticularIndex
			return
		}
		d.Particulars = append(d.Particulars[:index:index], d.Particulars[index+1:]...)
	})
	if rangeErr != nil {
		return DraftView{}, rangeErr
	}
	return s.DraftView()
}

// SubmitDraft sends the draft. On success the draft is closed and the list
// refreshed; on failure the draft stays for a retry.
func (s *BillingScreen) SubmitDraft(ctx context.Context) (form.Result, error) {
	f, err := s.current()
	if err != nil {
		return form.Result{}, err
	}
	res, err := f.Submit(ctx)
	if err != nil {
		return res, err
	}

	s.mu.Lock()
	if s.draft == f {
		s.draft = nil
		s.products = nil
	}
	s.mu.Unlock()
	if lerr := s.Table.Load(ctx); lerr != nil {
		log.Warn().Err(lerr).Msg("Billing reload after create failed")
	}
	return res, nil
}

// DiscardDraft closes the draft without sending it.
func (s *BillingScreen) DiscardDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	s.products = nil
}

func (s *BillingScreen) productNames() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make(map[string]string, len(s.products))
	for _, p := range s.products {
		names[p.ProductID] = p.ProductName
	}
	return names
}
