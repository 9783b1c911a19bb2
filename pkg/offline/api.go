package offline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/GTDGit/offline_console/internal/models"
)

var created = []int{http.StatusCreated}

// ListProducts returns every product.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if _, err := c.doRequest(ctx, http.MethodGet, "/inventory/list", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var out []models.Product
	if _, err := c.doRequest(ctx, http.MethodGet, "/inventory/"+url.PathEscape(productID), nil, &out, nil); err != nil {
		return nil, err
	}
	return first(out)
}

// CreateProduct creates a product. Only 201 counts as success.
func (c *Client) CreateProduct(ctx context.Context, p models.ProductPayload) (string, error) {
	return c.doRequest(ctx, http.MethodPost, "/inventory/create", p, nil, created)
}

// DeleteProducts removes the given products.
func (c *Client) DeleteProducts(ctx context.Context, productIDs []string) (string, error) {
	return c.doRequest(ctx, http.MethodDelete, "/inventory/product/delete", productIDs, nil, nil)
}

// ListSKUs returns every SKU.
func (c *Client) ListSKUs(ctx context.Context) ([]models.SKU, error) {
	var out []models.SKU
	if _, err := c.doRequest(ctx, http.MethodGet, "/inventory/sku/list", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSKU returns one SKU.
func (c *Client) GetSKU(ctx context.Context, modelID string) (*models.SKU, error) {
	var out []models.SKU
	if _, err := c.doRequest(ctx, http.MethodGet, "/inventory/sku/"+url.PathEscape(modelID), nil, &out, nil); err != nil {
		return nil, err
	}
	return first(out)
}

// CreateSKU creates a SKU. The draft must carry its model id. Only 201 counts
// as success.
func (c *Client) CreateSKU(ctx context.Context, d models.SKUDraft) (string, error) {
	return c.doRequest(ctx, http.MethodPost, "/inventory/sku/create", d, nil, created)
}

// UpdateSKU replaces the editable fields of a SKU and returns the stored
// record when the API echoes it. Only 201 counts as success.
func (c *Client) UpdateSKU(ctx context.Context, modelID string, d models.SKUDraft) (*models.SKU, string, error) {
	d.ModelID = ""
	var raw json.RawMessage
	msg, err := c.doRequest(ctx, http.MethodPut, "/inventory/sku/update/"+url.PathEscape(modelID), d, &raw, created)
	if err != nil {
		return nil, msg, err
	}
	var out []models.SKU
	if err := json.Unmarshal(raw, &out); err != nil || len(out) == 0 {
		// Some deployments answer with {message} only.
		return nil, msg, nil
	}
	return &out[0], msg, nil
}

// DeleteSKUs removes the given SKUs.
func (c *Client) DeleteSKUs(ctx context.Context, modelIDs []string) (string, error) {
	return c.doRequest(ctx, http.MethodDelete, "/inventory/sku/delete", modelIDs, nil, nil)
}

// ListBillings returns every invoice.
func (c *Client) ListBillings(ctx context.Context) ([]models.Billing, error) {
	var out []models.Billing
	if _, err := c.doRequest(ctx, http.MethodGet, "/billing/list", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBilling returns one invoice.
func (c *Client) GetBilling(ctx context.Context, billingID string) (*models.Billing, error) {
	var out []models.Billing
	if _, err := c.doRequest(ctx, http.MethodGet, "/billing/"+url.PathEscape(billingID), nil, &out, nil); err != nil {
		return nil, err
	}
	return first(out)
}

// CreateBilling creates an invoice.
func (c *Client) CreateBilling(ctx context.Context, b models.BillingPayload) (string, error) {
	return c.doRequest(ctx, http.MethodPost, "/billing/create", b, nil, nil)
}

// UpdateBillingStatus sets the status of an invoice.
func (c *Client) UpdateBillingStatus(ctx context.Context, billingID string, status models.BillingStatus) (string, error) {
	body := struct {
		Status models.BillingStatus `json:"status"`
	}{Status: status}
	return c.doRequest(ctx, http.MethodPut, "/billing/update/"+url.PathEscape(billingID), body, nil, nil)
}
