package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/offline_console/internal/detail"
	"github.com/GTDGit/offline_console/internal/form"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/notify"
	"github.com/GTDGit/offline_console/internal/utils"
	"github.com/GTDGit/offline_console/pkg/postal"
)

type harness struct {
	api      *fakeAPI
	postal   *fakePostal
	activity *fakeActivityStore
	queue    *notify.Queue
	deps     ScreenDeps
}

func newHarness(api *fakeAPI) *harness {
	h := &harness{
		api:      api,
		postal:   &fakePostal{},
		activity: &fakeActivityStore{},
		queue:    notify.NewQueue(),
	}
	h.deps = ScreenDeps{
		API:      api,
		Postal:   h.postal,
		Activity: &ActivityService{store: h.activity},
		Notifier: h.queue,
		Actor:    "admin@example.com",
	}
	return h
}

func catalog() *fakeAPI {
	return &fakeAPI{
		products: []models.Product{
			{ProductID: "P1", ProductName: "Mug", Category: models.CategoryDirectPrint, SKU: []models.SKURef{{ModelID: "AB12CD", Units: 2}}},
			{ProductID: "P2", ProductName: "Tee", Category: models.CategoryOther},
		},
		skus: []models.SKU{
			{ModelID: "AB12CD", Color: "Red", Units: 4},
			{ModelID: "ZZ9", Color: "Blue", Units: 1},
		},
		billings: []models.Billing{
			{BillingID: "B1", BillName: "Acme", Status: models.BillingPending, DocPath: "invoices/B1.pdf"},
			{BillingID: "B2", BillName: "Globex", Status: models.BillingPaid},
		},
	}
}

func TestInventoryReloadAndNestedSKU(t *testing.T) {
	h := newHarness(catalog())
	s := NewInventoryScreen(h.deps, 5)
	ctx := context.Background()

	require.NoError(t, s.Reload(ctx))
	v := s.Table.View()
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "Mug", v.Rows[0].ProductName, "sorted by productName")

	assert.ErrorIs(t, s.OpenSKU(ctx, "AB12CD"), detail.ErrClosed)

	require.NoError(t, s.OpenDetail(ctx, "P1"))
	assert.ErrorIs(t, s.OpenSKU(ctx, "ZZ9"), ErrNotInRecord)
	require.NoError(t, s.OpenSKU(ctx, "AB12CD"))
	assert.Equal(t, detail.StatusLoaded, s.SKUDetail.Snapshot().Status)

	require.NoError(t, s.OpenDetail(ctx, "P2"))
	assert.False(t, s.SKUDetail.Snapshot().Open, "switching product closes the nested sku")
}

func TestInventoryDetailNotFoundNotifies(t *testing.T) {
	h := newHarness(catalog())
	s := NewInventoryScreen(h.deps, 5)

	err := s.OpenDetail(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, detail.StatusFailed, s.Detail.Snapshot().Status)
	assert.Equal(t, []notify.Notification{notify.Error(notify.MsgProblemLoading)}, h.queue.Drain())
}

func TestInventoryCreateRejectsZeroUnits(t *testing.T) {
	h := newHarness(catalog())
	s := NewInventoryScreen(h.deps, 5)

	s.Create.Edit(func(d *models.ProductDraft) {
		d.ProductName = "Cap"
		d.Category = models.CategoryOther
		d.Type = "Cotton"
		d.SKU = []models.SKURef{{ModelID: "ZZ9", Units: 0}}
	})
	_, err := s.SubmitCreate(context.Background())

	require.ErrorIs(t, err, form.ErrValidation)
	assert.Zero(t, h.api.callCount("CreateProduct"))
	assert.Equal(t, []notify.Notification{notify.Error(form.MsgUnitsPositive)}, h.queue.Drain())
}

func TestInventoryCreateReloadsAndRecords(t *testing.T) {
	h := newHarness(catalog())
	s := NewInventoryScreen(h.deps, 5)
	ctx := context.Background()
	require.NoError(t, s.Reload(ctx))

	s.Create.Edit(func(d *models.ProductDraft) {
		d.ProductName = "Cap"
		d.Category = models.CategoryOther
		d.Type = "Cotton"
		d.SKU = []models.SKURef{{ModelID: "ZZ9", Units: 1}}
	})
	res, err := s.SubmitCreate(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Product created", res.Message)
	assert.Equal(t, 3, s.Table.View().Total)
	assert.Equal(t, []string{"create_product:success"}, h.activity.actions())
	notes := h.queue.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "Created successfully", notes[0].Title)
	assert.Equal(t, "/inventory", notes[0].NavigateTo)
}

func TestInventoryBulkDeleteFailureKeepsSelection(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewInventoryScreen(h.deps, 5)
	ctx := context.Background()
	require.NoError(t, s.Reload(ctx))

	s.Table.ToggleSelect("P1")
	require.NoError(t, s.Table.RequestDelete())
	api.failWrites = true
	require.Error(t, s.Table.ConfirmDelete(ctx))

	assert.Equal(t, []string{"P1"}, s.Table.State().Selected)
	assert.Equal(t, []notify.Notification{notify.Error(notify.MsgProblemDeleting)}, h.queue.Drain())
	assert.Equal(t, []string{"bulk_delete:failure"}, h.activity.actions())
}

func TestStocksBulkDeleteTargetsSKUs(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewStocksScreen(h.deps, 10)
	ctx := context.Background()
	require.NoError(t, s.Reload(ctx))
	assert.True(t, s.Table.State().Dense)

	s.Table.ToggleSelect("ZZ9")
	require.NoError(t, s.Table.RequestDelete())
	require.NoError(t, s.Table.ConfirmDelete(ctx))

	assert.Equal(t, [][]string{{"ZZ9"}}, api.deleted)
	assert.Zero(t, api.callCount("DeleteProducts"))
	assert.Empty(t, s.Table.State().Selected)
	assert.Equal(t, 1, s.Table.View().Total)
}

func TestStocksCreateAssignsModelID(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewStocksScreen(h.deps, 10)
	ctx := context.Background()
	require.NoError(t, s.Reload(ctx))

	s.Create.Edit(func(d *models.SKUDraft) {
		d.Color = "Green"
		d.Material = "Cotton"
		d.Dimensions = "10x10"
		d.RatePerUnit = 9.5
		d.Units = 3
	})
	_, err := s.SubmitCreate(ctx)

	require.NoError(t, err)
	require.Len(t, api.createdSKUs, 1)
	id := api.createdSKUs[0].ModelID
	assert.Len(t, id, utils.ModelIDLength)
	assert.True(t, s.Table.Has(id))
	assert.Empty(t, s.Create.Draft().Color, "create form resets after success")
}

func TestStocksCreateLoadsListBeforeAssigningID(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewStocksScreen(h.deps, 10)
	ctx := context.Background()
	require.False(t, s.Table.Loaded())

	s.Create.Edit(func(d *models.SKUDraft) {
		d.Color = "Green"
		d.Material = "Cotton"
		d.Dimensions = "10x10"
		d.RatePerUnit = 9.5
		d.Units = 3
	})
	_, err := s.Create.Submit(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"ListSKUs", "CreateSKU"}, api.calls)
	assert.True(t, s.Table.Loaded())
	assert.False(t, s.Table.Has(api.createdSKUs[0].ModelID), "the new id was free when assigned")
}

func TestStocksEditFlow(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewStocksScreen(h.deps, 10)
	ctx := context.Background()
	require.NoError(t, s.Reload(ctx))

	_, err := s.PatchEdit(models.SKUPatch{})
	assert.ErrorIs(t, err, form.ErrNotSeeded)

	require.NoError(t, s.BeginEdit(ctx, "AB12CD"))
	assert.Equal(t, "Red", s.Edit.Draft().Color)

	_, err = s.SubmitEdit(ctx)
	assert.ErrorIs(t, err, form.ErrNotDirty)

	color, material, dims := "Black", "Steel", "5x5"
	state, err := s.PatchEdit(models.SKUPatch{Color: &color, Material: &material, Dimensions: &dims})
	require.NoError(t, err)
	assert.True(t, state.CanSubmit)

	_, err = s.SubmitEdit(ctx)
	require.NoError(t, err)
	var row models.SKU
	for _, r := range s.Table.Rows() {
		if r.ModelID == "AB12CD" {
			row = r
		}
	}
	assert.Equal(t, "Black", row.Color)
	assert.Equal(t, []string{"update_sku:success"}, h.activity.actions())

	s.DiscardEdit()
	assert.False(t, s.Edit.State().Seeded)
}

func TestStocksEditWithClosedPanelIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	h := newHarness(catalog())
	s := NewStocksScreen(h.deps, 10)
	ctx := context.Background()
	require.NoError(t, s.BeginEdit(ctx, "ZZ9"))
	color := "Teal"
	_, err := s.PatchEdit(models.SKUPatch{Color: &color})
	require.NoError(t, err)

	_, err = s.SubmitEdit(ctx)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "SKU panel closed before update ack")
	assert.Contains(t, buf.String(), `"model_id":"ZZ9"`)
}

func TestBillingAdvanceStatus(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewBillingScreen(h.deps, 5)
	ctx := context.Background()
	require.NoError(t, s.Reload(ctx))

	_, err := s.AdvanceStatus(ctx, models.BillingPartial)
	assert.ErrorIs(t, err, detail.ErrClosed)

	require.NoError(t, s.OpenDetail(ctx, "B1"))
	_, err = s.AdvanceStatus(ctx, models.BillingPaid)
	assert.ErrorIs(t, err, models.ErrInvalidTransition, "one step at a time")

	rec, err := s.AdvanceStatus(ctx, models.BillingPartial)
	require.NoError(t, err)
	assert.Equal(t, models.BillingPartial, rec.Status)
	shown, _ := s.Detail.Record()
	assert.Equal(t, models.BillingPartial, shown.Status)
	for _, b := range s.Table.Rows() {
		if b.BillingID == "B1" {
			assert.Equal(t, models.BillingPartial, b.Status)
		}
	}
	assert.Equal(t, 1, api.callCount("ListBillings"), "no reload after the ack")
}

func TestBillingPaidIsTerminal(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewBillingScreen(h.deps, 5)
	ctx := context.Background()
	require.NoError(t, s.OpenDetail(ctx, "B2"))

	for _, next := range []models.BillingStatus{models.BillingPending, models.BillingPartial} {
		_, err := s.AdvanceStatus(ctx, next)
		assert.ErrorIs(t, err, models.ErrStatusTerminal)
	}
	assert.Zero(t, api.callCount("UpdateBillingStatus"))
}

func TestBillingStatusFailureKeepsRecord(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewBillingScreen(h.deps, 5)
	ctx := context.Background()
	require.NoError(t, s.OpenDetail(ctx, "B1"))
	api.failWrites = true

	_, err := s.AdvanceStatus(ctx, models.BillingPartial)

	require.Error(t, err)
	shown, _ := s.Detail.Record()
	assert.Equal(t, models.BillingPending, shown.Status)
	assert.Equal(t, []notify.Notification{notify.Error(notify.MsgProblemSaving)}, h.queue.Drain())
}

func TestBillingDraftLifecycle(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	h.postal.place = &postal.Place{Name: "Chennai", State: "TN"}
	s := NewBillingScreen(h.deps, 5)
	ctx := context.Background()

	_, err := s.AddParticular()
	assert.ErrorIs(t, err, utils.ErrNoDraft)

	view, err := s.StartDraft(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Products, 2)
	assert.Equal(t, models.BillingPending, view.Form.Draft.Status)

	name, contact, email := "Acme", "9876543210", "billing@acme.test"
	on := true
	_, err = s.PatchDraft(ctx, models.BillingPatch{BillName: &name, ContactNo: &contact, EmailAddress: &email, EmailEnabled: &on})
	require.NoError(t, err)

	short := "6000"
	view, err = s.PatchDraft(ctx, models.BillingPatch{Zipcode: &short})
	require.NoError(t, err)
	assert.Empty(t, h.postal.zips, "lookup waits for six characters")

	zip := "600001"
	view, err = s.PatchDraft(ctx, models.BillingPatch{Zipcode: &zip})
	require.NoError(t, err)
	assert.Equal(t, "Chennai", view.Form.Draft.BillAddress.City)
	assert.Equal(t, "TN", view.Form.Draft.BillAddress.State)

	_, err = s.AddParticular()
	require.NoError(t, err)
	_, err = s.AddParticular()
	require.NoError(t, err)

	pid, rate, units := "P1", models.Amount(100), models.Count(2)
	view, err = s.PatchParticular(0, models.ParticularPatch{ProductID: &pid, Rate: &rate, Units: &units})
	require.NoError(t, err)
	assert.Equal(t, "Mug", view.Form.Draft.Particulars[0].ProductName)
	assert.Equal(t, models.Amount(200), view.Form.Draft.Total)

	_, err = s.PatchParticular(5, models.ParticularPatch{})
	assert.ErrorIs(t, err, utils.ErrParticularIndex)

	view, err = s.RemoveParticular(1)
	require.NoError(t, err)
	assert.Len(t, view.Form.Draft.Particulars, 1)
	assert.Equal(t, models.Amount(200), view.Form.Draft.Total)

	_, err = s.SubmitDraft(ctx)
	require.NoError(t, err)
	require.Len(t, api.createdBillings, 1)
	sent := api.createdBillings[0]
	assert.Equal(t, "billing@acme.test", sent.EmailAddress)
	assert.Equal(t, models.Amount(200), sent.Total)
	assert.Equal(t, "Chennai", sent.BillAddress.City)

	_, err = s.DraftView()
	assert.ErrorIs(t, err, utils.ErrNoDraft, "a sent draft is closed")
	assert.Equal(t, []string{"create_billing:success"}, h.activity.actions())
}

func TestBillingDraftEmailToggleOff(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewBillingScreen(h.deps, 5)
	ctx := context.Background()
	_, err := s.StartDraft(ctx)
	require.NoError(t, err)

	name, contact, email := "Acme", "9876543210", "billing@acme.test"
	_, err = s.PatchDraft(ctx, models.BillingPatch{BillName: &name, ContactNo: &contact, EmailAddress: &email})
	require.NoError(t, err)
	_, err = s.AddParticular()
	require.NoError(t, err)
	pid, units := "P2", models.Count(1)
	_, err = s.PatchParticular(0, models.ParticularPatch{ProductID: &pid, Units: &units})
	require.NoError(t, err)

	_, err = s.SubmitDraft(ctx)
	require.NoError(t, err)
	assert.Empty(t, api.createdBillings[0].EmailAddress)
}

func TestBillingDraftFailureKeepsDraft(t *testing.T) {
	api := catalog()
	h := newHarness(api)
	s := NewBillingScreen(h.deps, 5)
	ctx := context.Background()
	_, err := s.StartDraft(ctx)
	require.NoError(t, err)

	name, contact := "Acme", "1"
	_, err = s.PatchDraft(ctx, models.BillingPatch{BillName: &name, ContactNo: &contact})
	require.NoError(t, err)
	_, err = s.AddParticular()
	require.NoError(t, err)
	pid, units := "P1", models.Count(1)
	_, err = s.PatchParticular(0, models.ParticularPatch{ProductID: &pid, Units: &units})
	require.NoError(t, err)

	api.failWrites = true
	_, err = s.SubmitDraft(ctx)
	require.Error(t, err)

	view, err := s.DraftView()
	require.NoError(t, err)
	assert.Equal(t, "Acme", view.Form.Draft.BillName)
	assert.Equal(t, []string{"create_billing:failure"}, h.activity.actions())
}

func TestBillingDocumentWithoutStorage(t *testing.T) {
	h := newHarness(catalog())
	s := NewBillingScreen(h.deps, 5)

	_, err := s.Document(context.Background(), "B1")
	assert.ErrorIs(t, err, utils.ErrDocumentUnavailable)
}
