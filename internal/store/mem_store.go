package store

import (
	"context"
	"strings"
	"sync"
	"time"

	perrors "github.com/abgdnv/productos/internal/errors"
	"github.com/abgdnv/productos/internal/store/db"
)

var _ ProductStore = (*MemStore)(nil)

// MemStore is an in-memory ProductStore. All operations hold a single mutex,
// so name checks and writes are atomic.
type MemStore struct {
	mu       sync.RWMutex
	products map[int64]db.Product
	nextID   int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: make(map[int64]db.Product),
	}
}

func (m *MemStore) FindByID(_ context.Context, id int64) (*db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	product, ok := m.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &product, nil
}

func (m *MemStore) FindByName(_ context.Context, name string) (*db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, product := range m.products {
		if strings.EqualFold(product.Name, name) {
			return &product, nil
		}
	}
	return nil, perrors.ErrProductNotFound
}

// FindAll returns products ordered by ID. IDs are assigned in insertion order.
func (m *MemStore) FindAll(_ context.Context) ([]db.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]db.Product, 0, len(m.products))
	for id := int64(1); id <= m.nextID; id++ {
		if product, ok := m.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

func (m *MemStore) Save(_ context.Context, product db.Product) (*db.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTakenLocked(product.Name, product.ID) {
		return nil, perrors.ErrNameTaken
	}

	now := time.Now().UTC()
	if product.ID == 0 {
		m.nextID++
		product.ID = m.nextID
		product.CreatedAt = &now
		product.UpdatedAt = &now
		m.products[product.ID] = product
		return &product, nil
	}

	existing, ok := m.products[product.ID]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = &now
	m.products[product.ID] = product
	return &product, nil
}

func (m *MemStore) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return perrors.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MemStore) Ping(_ context.Context) error {
	return nil
}

// nameTakenLocked reports whether a product other than ownerID has the name. Callers hold mu.
func (m *MemStore) nameTakenLocked(name string, ownerID int64) bool {
	for id, product := range m.products {
		if id != ownerID && strings.EqualFold(product.Name, name) {
			return true
		}
	}
	return false
}
