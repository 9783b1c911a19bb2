package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/detail"
	"github.com/GTDGit/offline_console/internal/form"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/tableview"
)

// InventoryScreen is the product list with its detail drawer, nested SKU
// dialog and the create form.
type InventoryScreen struct {
	screenTable[models.Product]
	deps ScreenDeps

	Detail    *detail.Panel[models.Product]
	SKUDetail *detail.Panel[models.SKU]
	Create    *form.Controller[models.ProductDraft]
}

// NewInventoryScreen builds the inventory screen. Rows are fetched on Reload.
func NewInventoryScreen(deps ScreenDeps, pageSize int) *InventoryScreen {
	s := &InventoryScreen{deps: deps}

	opts := withBulkDelete(tableview.Options[models.Product]{
		Name:          ScreenInventory,
		List:          deps.API.ListProducts,
		DeleteTitle:   "Delete products",
		DeleteMessage: "Are you sure you want to delete the selected products?",
		State:         tableview.NewViewState("productName", pageSize, false),
		SelectAll:     deps.SelectAll,
	}, deps, deps.API.DeleteProducts)
	s.screenTable = screenTable[models.Product]{
		name:     ScreenInventory,
		Table:    tableview.NewController(opts),
		notifier: deps.notifier(),
	}

	s.SKUDetail = detail.New("inventory-sku", getSKU(deps.API))
	s.Detail = detail.New("product", func(ctx context.Context, id string) (models.Product, error) {
		p, err := deps.API.GetProduct(ctx, id)
		if err != nil {
			return models.Product{}, err
		}
		return *p, nil
	}).Nest(s.SKUDetail)

	s.Create = form.New(form.Options[models.ProductDraft]{
		Name:         "product-create",
		Mode:         form.ModeCreate,
		Empty:        func() models.ProductDraft { return models.ProductDraft{SKU: []models.SKURef{}} },
		Submit:       s.createProduct,
		Notifier:     deps.notifier(),
		SuccessTitle: "Created successfully",
		NavigateTo:   "/inventory",
	})
	return s
}

func (s *InventoryScreen) createProduct(ctx context.Context, d models.ProductDraft) (form.Result, error) {
	msg, err := s.deps.API.CreateProduct(ctx, d.Payload())
	s.deps.record(ctx, ScreenInventory, "create_product", nil, err, msg)
	if err != nil {
		return form.Result{}, err
	}
	return form.Result{Message: msg}, nil
}

// OpenDetail shows one product.
func (s *InventoryScreen) OpenDetail(ctx context.Context, productID string) error {
	return openPanel(ctx, s.Detail, s.notifier, productID)
}

// OpenSKU shows one SKU of the product in the drawer.
func (s *InventoryScreen) OpenSKU(ctx context.Context, modelID string) error {
	p, ok := s.Detail.Record()
	if !ok {
		return detail.ErrClosed
	}
	if !p.HasSKU(modelID) {
		return ErrNotInRecord
	}
	return openPanel(ctx, s.SKUDetail, s.notifier, modelID)
}

// SKUOptions lists the SKUs the create form can reference.
func (s *InventoryScreen) SKUOptions(ctx context.Context) ([]models.SKU, error) {
	skus, err := s.deps.API.ListSKUs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load SKU options")
		s.notifier.Notify(notifyLoading())
		return nil, err
	}
	return skus, nil
}

// SubmitCreate submits the create form and refreshes the list on success.
func (s *InventoryScreen) SubmitCreate(ctx context.Context) (form.Result, error) {
	res, err := s.Create.Submit(ctx)
	if err != nil {
		return res, err
	}
	if lerr := s.Table.Load(ctx); lerr != nil {
		log.Warn().Err(lerr).Msg("Inventory reload after create failed")
	}
	return res, nil
}
