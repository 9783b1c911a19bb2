package service

import (
	"context"
	"errors"
	"sync"

	"github.com/GTDGit/offline_console/internal/cache"
	"github.com/GTDGit/offline_console/internal/models"
	"github.com/GTDGit/offline_console/internal/tableview"
	"github.com/GTDGit/offline_console/pkg/offline"
	"github.com/GTDGit/offline_console/pkg/postal"
)

var errUpstream = errors.New("upstream unavailable")

type fakeAPI struct {
	mu       sync.Mutex
	products []models.Product
	skus     []models.SKU
	billings []models.Billing

	failWrites bool
	calls      []string

	createdProducts []models.ProductPayload
	createdSKUs     []models.SKUDraft
	createdBillings []models.BillingPayload
	deleted         [][]string
	statusUpdates   map[string]models.BillingStatus
}

func (f *fakeAPI) call(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ListProducts(context.Context) ([]models.Product, error) {
	f.call("ListProducts")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeAPI) GetProduct(_ context.Context, id string) (*models.Product, error) {
	f.call("GetProduct")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ProductID == id {
			return &p, nil
		}
	}
	return nil, offline.ErrNotFound
}

func (f *fakeAPI) CreateProduct(_ context.Context, p models.ProductPayload) (string, error) {
	f.call("CreateProduct")
	if f.failWrites {
		return "", errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdProducts = append(f.createdProducts, p)
	f.products = append(f.products, models.Product{ProductID: "P-new", ProductName: p.ProductName})
	return "Product created", nil
}

func (f *fakeAPI) DeleteProducts(_ context.Context, ids []string) (string, error) {
	f.call("DeleteProducts")
	if f.failWrites {
		return "", errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids)
	kept := f.products[:0]
	for _, p := range f.products {
		if !contains(ids, p.ProductID) {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return "Deleted", nil
}

func (f *fakeAPI) ListSKUs(context.Context) ([]models.SKU, error) {
	f.call("ListSKUs")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SKU(nil), f.skus...), nil
}

func (f *fakeAPI) GetSKU(_ context.Context, id string) (*models.SKU, error) {
	f.call("GetSKU")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.skus {
		if s.ModelID == id {
			return &s, nil
		}
	}
	return nil, offline.ErrNotFound
}

func (f *fakeAPI) CreateSKU(_ context.Context, d models.SKUDraft) (string, error) {
	f.call("CreateSKU")
	if f.failWrites {
		return "", errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdSKUs = append(f.createdSKUs, d)
	f.skus = append(f.skus, models.SKU{ModelID: d.ModelID, Color: d.Color, Units: d.Units})
	return "SKU created", nil
}

func (f *fakeAPI) UpdateSKU(_ context.Context, id string, d models.SKUDraft) (*models.SKU, string, error) {
	f.call("UpdateSKU")
	if f.failWrites {
		return nil, "", errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.skus {
		if s.ModelID == id {
			s.Color, s.Material, s.Dimensions = d.Color, d.Material, d.Dimensions
			s.RatePerUnit, s.Units, s.InStock = d.RatePerUnit, d.Units, d.InStock
			f.skus[i] = s
			return &s, "SKU updated", nil
		}
	}
	return nil, "", offline.ErrNotFound
}

func (f *fakeAPI) DeleteSKUs(_ context.Context, ids []string) (string, error) {
	f.call("DeleteSKUs")
	if f.failWrites {
		return "", errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ids)
	kept := f.skus[:0]
	for _, s := range f.skus {
		if !contains(ids, s.ModelID) {
			kept = append(kept, s)
		}
	}
	f.skus = kept
	return "Deleted", nil
}

func (f *fakeAPI) ListBillings(context.Context) ([]models.Billing, error) {
	f.call("ListBillings")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Billing(nil), f.billings...), nil
}

func (f *fakeAPI) GetBilling(_ context.Context, id string) (*models.Billing, error) {
	f.call("GetBilling")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.billings {
		if b.BillingID == id {
			return &b, nil
		}
	}
	return nil, offline.ErrNotFound
}

func (f *fakeAPI) CreateBilling(_ context.Context, b models.BillingPayload) (string, error) {
	f.call("CreateBilling")
	if f.failWrites {
		return "", errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdBillings = append(f.createdBillings, b)
	return "Bill generated", nil
}

func (f *fakeAPI) UpdateBillingStatus(_ context.Context, id string, status models.BillingStatus) (string, error) {
	f.call("UpdateBillingStatus")
	if f.failWrites {
		return "", errUpstream
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusUpdates == nil {
		f.statusUpdates = map[string]models.BillingStatus{}
	}
	f.statusUpdates[id] = status
	return "Status updated", nil
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

type fakePostal struct {
	place *postal.Place
	err   error
	zips  []string
}

func (f *fakePostal) Lookup(_ context.Context, zip string) (*postal.Place, error) {
	f.zips = append(f.zips, zip)
	return f.place, f.err
}

type fakeActivityStore struct {
	mu      sync.Mutex
	entries []models.ActivityLog
	limit   int
}

func (f *fakeActivityStore) Create(_ context.Context, e *models.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeActivityStore) ListRecent(_ context.Context, screen string, limit int) ([]models.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	var out []models.ActivityLog
	for _, e := range f.entries {
		if screen == "" || e.Screen == screen {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeActivityStore) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action+":"+string(e.Outcome))
	}
	return out
}

type memViews struct {
	mu    sync.Mutex
	views map[string]tableview.ViewState
}

func newMemViews() *memViews {
	return &memViews{views: map[string]tableview.ViewState{}}
}

func (m *memViews) SaveView(_ context.Context, sid, screen string, s tableview.ViewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[sid+"/"+screen] = s
	return nil
}

func (m *memViews) LoadView(_ context.Context, sid, screen string) (*cache.ViewSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.views[sid+"/"+screen]
	if !ok {
		return nil, cache.ErrMiss
	}
	return &cache.ViewSnapshot{State: s}, nil
}

func (m *memViews) DeleteViews(_ context.Context, sid string, screens ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range screens {
		delete(m.views, sid+"/"+s)
	}
	return nil
}
