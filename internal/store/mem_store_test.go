package store

import (
	"context"
	"sync"
	"testing"

	perrors "github.com/abgdnv/productos/internal/errors"
	"github.com/abgdnv/productos/internal/store/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveProduct(t *testing.T, s *MemStore, name string, price float64, stock int32) *db.Product {
	t.Helper()
	product, err := s.Save(context.Background(), db.Product{Name: name, Price: price, Stock: stock})
	require.NoError(t, err)
	return product
}

func TestMemStore_SaveAssignsIDs(t *testing.T) {
	// given
	s := NewMemStore()
	// when
	first := saveProduct(t, s, "Alfajor", 150, 10)
	second := saveProduct(t, s, "Mate", 80, 5)
	// then
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	require.NotNil(t, first.CreatedAt)
	require.NotNil(t, first.UpdatedAt)
}

func TestMemStore_FindByID(t *testing.T) {
	s := NewMemStore()
	created := saveProduct(t, s, "Alfajor", 150, 10)

	testCases := []struct {
		name        string
		id          int64
		expectError error
	}{
		{name: "found", id: created.ID},
		{name: "not found", id: 42, expectError: perrors.ErrProductNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			found, err := s.FindByID(context.Background(), tc.id)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *created, *found)
		})
	}
}

func TestMemStore_FindByName(t *testing.T) {
	s := NewMemStore()
	created := saveProduct(t, s, "Alfajor", 150, 10)

	testCases := []struct {
		name        string
		query       string
		expectError error
	}{
		{name: "exact", query: "Alfajor"},
		{name: "different case", query: "aLFAJOR"},
		{name: "not found", query: "Alfa", expectError: perrors.ErrProductNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			found, err := s.FindByName(context.Background(), tc.query)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, found.ID)
		})
	}
}

func TestMemStore_SaveRejectsDuplicateName(t *testing.T) {
	// given
	s := NewMemStore()
	saveProduct(t, s, "Alfajor", 150, 10)
	// when
	_, err := s.Save(context.Background(), db.Product{Name: "ALFAJOR", Price: 1})
	// then
	assert.ErrorIs(t, err, perrors.ErrNameTaken)
	all, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemStore_Update(t *testing.T) {
	s := NewMemStore()
	alfajor := saveProduct(t, s, "Alfajor", 150, 10)
	mate := saveProduct(t, s, "Mate", 80, 5)

	testCases := []struct {
		name        string
		product     db.Product
		expectError error
	}{
		{name: "replace fields", product: db.Product{ID: alfajor.ID, Name: "Alfajor Triple", Description: "chocolate", Price: 200, Stock: 3}},
		{name: "keep own name in other case", product: db.Product{ID: mate.ID, Name: "MATE", Price: 90, Stock: 1}},
		{name: "name owned by another product", product: db.Product{ID: mate.ID, Name: "alfajor triple"}, expectError: perrors.ErrNameTaken},
		{name: "missing id", product: db.Product{ID: 99, Name: "Yerba"}, expectError: perrors.ErrProductNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			updated, err := s.Save(context.Background(), tc.product)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.product.Name, updated.Name)
			assert.Equal(t, tc.product.Description, updated.Description)
			assert.Equal(t, tc.product.Price, updated.Price)
			assert.Equal(t, tc.product.Stock, updated.Stock)

			found, err := s.FindByID(context.Background(), tc.product.ID)
			require.NoError(t, err)
			assert.Equal(t, *updated, *found)
		})
	}
}

func TestMemStore_DeleteByID(t *testing.T) {
	// given
	s := NewMemStore()
	created := saveProduct(t, s, "Alfajor", 150, 10)
	// when
	err := s.DeleteByID(context.Background(), created.ID)
	// then
	require.NoError(t, err)
	_, err = s.FindByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	assert.ErrorIs(t, s.DeleteByID(context.Background(), created.ID), perrors.ErrProductNotFound)
}

func TestMemStore_FindAllOrderedByID(t *testing.T) {
	// given
	s := NewMemStore()
	empty, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	saveProduct(t, s, "A", 3, 1)
	b := saveProduct(t, s, "B", 2, 1)
	saveProduct(t, s, "C", 1, 1)
	require.NoError(t, s.DeleteByID(context.Background(), b.ID))
	saveProduct(t, s, "D", 0, 1)
	// when
	all, err := s.FindAll(context.Background())
	// then
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"A", "C", "D"}, names)
}

func TestMemStore_ConcurrentCreateSameName(t *testing.T) {
	// given
	s := NewMemStore()
	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		taken     int
	)
	// when
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Save(context.Background(), db.Product{Name: "Alfajor", Price: 150, Stock: 10})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, perrors.ErrNameTaken) {
				taken++
			}
		}()
	}
	wg.Wait()
	// then
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, taken)
}

func TestMemStore_Ping(t *testing.T) {
	assert.NoError(t, NewMemStore().Ping(context.Background()))
}
