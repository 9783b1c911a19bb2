// Package detail implements the read-mostly drawer that shows one fetched
// record. Each fetch is tagged with a generation token so a response that
// arrives after the panel was closed or re-targeted is dropped.
package detail

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrStale is returned by Open when the panel was closed or re-targeted while
// the fetch was in flight. The fetched record was discarded.
var ErrStale = errors.New("detail fetch superseded")

// ErrClosed is returned when updating a panel that holds no record.
var ErrClosed = errors.New("detail panel is not showing a record")

// Status is the panel lifecycle: closed, loading, then loaded or failed.
type Status string

const (
	StatusClosed  Status = "closed"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// FetchFunc loads one record by identifier.
type FetchFunc[T any] func(ctx context.Context, id string) (T, error)

// Closer is anything that closes along with its parent panel.
type Closer interface {
	Close()
}

// Panel holds one record fetched on open.
type Panel[T any] struct {
	mu       sync.Mutex
	name     string
	fetch    FetchFunc[T]
	status   Status
	id       string
	gen      uint64
	record   T
	err      error
	children []Closer
}

// Snapshot is the panel state handed to a renderer.
type Snapshot[T any] struct {
	Open   bool   `json:"open"`
	Status Status `json:"status"`
	ID     string `json:"id,omitempty"`
	Record *T     `json:"record,omitempty"`
}

// New returns a closed panel. name is used in log lines only.
func New[T any](name string, fetch FetchFunc[T]) *Panel[T] {
	return &Panel[T]{name: name, fetch: fetch, status: StatusClosed}
}

// Nest registers children that are closed whenever this panel closes or
// moves to another record.
func (p *Panel[T]) Nest(children ...Closer) *Panel[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.children = append(p.children, children...)
	return p
}

// Begin moves the panel to loading for id and returns the token the fetch
// result must carry to be applied.
func (p *Panel[T]) Begin(id string) uint64 {
	p.mu.Lock()
	p.gen++
	retarget := p.id != id
	p.id = id
	p.status = StatusLoading
	p.err = nil
	var zero T
	p.record = zero
	token := p.gen
	children := p.children
	p.mu.Unlock()

	if retarget {
		closeAll(children)
	}
	return token
}

// Resolve applies a fetch result if token is still current. It reports
// whether the result was applied.
func (p *Panel[T]) Resolve(token uint64, record T, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.gen || p.status != StatusLoading {
		log.Debug().Str("panel", p.name).Str("id", p.id).Msg("Discarding stale detail fetch")
		return false
	}
	if err != nil {
		p.status = StatusFailed
		p.err = err
		return true
	}
	p.status = StatusLoaded
	p.record = record
	return true
}

// Open shows the record with identifier id, fetching it unless it is already
// loaded. Reopening a failed panel fetches again.
func (p *Panel[T]) Open(ctx context.Context, id string) error {
	p.mu.Lock()
	if p.status == StatusLoaded && p.id == id {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	token := p.Begin(id)
	record, err := p.fetch(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("panel", p.name).Str("id", id).Msg("Failed to fetch detail")
	}
	if !p.Resolve(token, record, err) {
		return ErrStale
	}
	return err
}

// Close hides the panel and its children. An in-flight fetch is discarded
// when it resolves.
func (p *Panel[T]) Close() {
	p.mu.Lock()
	p.gen++
	p.status = StatusClosed
	p.id = ""
	p.err = nil
	var zero T
	p.record = zero
	children := p.children
	p.mu.Unlock()

	closeAll(children)
}

// Apply replaces the shown record with fn's result, e.g. to reflect an
// acknowledged update without refetching.
func (p *Panel[T]) Apply(fn func(T) T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != StatusLoaded {
		return ErrClosed
	}
	p.record = fn(p.record)
	return nil
}

// Record returns the loaded record.
func (p *Panel[T]) Record() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record, p.status == StatusLoaded
}

// ID returns the identifier the panel is showing or loading.
func (p *Panel[T]) ID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

// Err returns the last fetch error while the panel is failed.
func (p *Panel[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Panel[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Snapshot[T]{Open: p.status != StatusClosed, Status: p.status, ID: p.id}
	if p.status == StatusLoaded {
		rec := p.record
		s.Record = &rec
	}
	return s
}

func closeAll(children []Closer) {
	for _, c := range children {
		c.Close()
	}
}
