package service

import (
	"context"

	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/pkg/postal"
)

// OfflineAPI is the remote inventory and billing API the screens drive.
// *offline.Client implements it.
type OfflineAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	CreateProduct(ctx context.Context, p models.ProductPayload) (string, error)
	DeleteProducts(ctx context.Context, productIDs []string) (string, error)

	ListSKUs(ctx context.Context) ([]models.SKU, error)
	GetSKU(ctx context.Context, modelID string) (*models.SKU, error)
	CreateSKU(ctx context.Context, d models.SKUDraft) (string, error)
	UpdateSKU(ctx context.Context, modelID string, d models.SKUDraft) (*models.SKU, string, error)
	DeleteSKUs(ctx context.Context, modelIDs []string) (string, error)

	ListBillings(ctx context.Context) ([]models.Billing, error)
	GetBilling(ctx context.Context, billingID string) (*models.Billing, error)
	CreateBilling(ctx context.Context, b models.BillingPayload) (string, error)
	UpdateBillingStatus(ctx context.Context, billingID string, status models.BillingStatus) (string, error)
}

// PostalLookup resolves a postal code to a place. *postal.Client implements it.
type PostalLookup interface {
	Lookup(ctx context.Context, zipcode string) (*postal.Place, error)
}

// getSKU adapts OfflineAPI.GetSKU to a detail fetch.
func getSKU(api OfflineAPI) func(ctx context.Context, id string) (models.SKU, error) {
	return func(ctx context.Context, id string) (models.SKU, error) {
		s, err := api.GetSKU(ctx, id)
		if err != nil {
			return models.SKU{}, err
		}
		return *s, nil
	}
}
