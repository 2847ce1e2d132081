package ledger

import (
	"context"
	"sync"
)

// page is the append-only transaction log of one user, guarded by its own
// lock so appends for unrelated users never serialize on each other.
type page struct {
	mu  sync.RWMutex
	txs []Transaction
}

// MemoryRepository is the in-memory ledger store: a concurrent keyed map
// of per-user pages. It is the authoritative store in the default setup.
type MemoryRepository struct {
	mu    sync.RWMutex
	pages map[string]*page
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{pages: make(map[string]*page)}
}

// lookup returns the user's page, creating it when create is set. The
// outer lock is held only for map access, never during page I/O.
func (r *MemoryRepository) lookup(userID string, create bool) *page {
	r.mu.RLock()
	p := r.pages[userID]
	r.mu.RUnlock()
	if p != nil || !create {
		return p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p = r.pages[userID]; p == nil {
		p = &page{}
		r.pages[userID] = p
	}
	return p
}

// Append stores the transaction at the end of its user's page.
func (r *MemoryRepository) Append(_ context.Context, tx *Transaction) error {
	p := r.lookup(tx.UserID, true)
	p.mu.Lock()
	p.txs = append(p.txs, *tx)
	p.mu.Unlock()
	return nil
}

// Query returns copies of the user's transactions within the date bounds,
// in insertion order.
func (r *MemoryRepository) Query(_ context.Context, userID, startDate, endDate string) ([]Transaction, error) {
	p := r.lookup(userID, false)
	if p == nil {
		return []Transaction{}, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]Transaction, 0, len(p.txs))
	for _, tx := range p.txs {
		if inRange(tx.Date, startDate, endDate) {
			result = append(result, tx)
		}
	}
	return result, nil
}
