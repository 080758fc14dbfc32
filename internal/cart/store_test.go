package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-storefront/internal/product"
	"tienda-storefront/internal/storage"
)

// memStore is an in-memory storage.Store with injectable failures.
type memStore struct {
	data    map[string][]byte
	failGet bool
	failSet bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.failGet {
		return nil, errors.New("storage down")
	}
	data, ok := m.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.failSet {
		return errors.New("storage down")
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

var (
	guitar = product.Product{ID: "p1", Name: "Guitarra", Price: 10.00}
	capo   = product.Product{ID: "p2", Name: "Capo", Price: 5.50}
)

func TestAdd_SameProductTwiceBumpsQuantity(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, newMemStore(), "cart:u1")

	s.Add(ctx, guitar)
	s.Add(ctx, guitar)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestSetQuantity_FloorRemovesLine(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, newMemStore(), "cart:u1")
	s.Add(ctx, guitar)
	s.Add(ctx, capo)

	s.SetQuantity(ctx, "p1", 0)
	assert.Len(t, s.Items(), 1)

	s.SetQuantity(ctx, "p2", -3)
	assert.Empty(t, s.Items())
}

func TestTotalAndCount(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, newMemStore(), "cart:u1")

	s.Add(ctx, guitar)
	s.SetQuantity(ctx, "p1", 2)
	s.Add(ctx, capo)

	assert.InDelta(t, 25.50, s.Total(), 1e-9)
	assert.Equal(t, 3, s.Count())

	s.Remove(ctx, "p1")
	assert.InDelta(t, 5.50, s.Total(), 1e-9)
	assert.Equal(t, 1, s.Count())
}

func TestRemove_AbsentProductIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewStore(ctx, newMemStore(), "cart:u1")
	s.Add(ctx, guitar)

	s.Remove(ctx, "nope")
	assert.Len(t, s.Items(), 1)
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()

	s := NewStore(ctx, st, "cart:u1")
	s.Add(ctx, guitar)
	s.Add(ctx, guitar)
	s.Add(ctx, capo)

	reloaded := NewStore(ctx, st, "cart:u1")
	assert.Equal(t, s.Items(), reloaded.Items())
	assert.Equal(t, 3, reloaded.Count())
}

func TestClear_RemovesPersistedRecord(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()

	s := NewStore(ctx, st, "cart:u1")
	s.Add(ctx, guitar)
	require.Contains(t, st.data, "cart:u1")

	s.Clear(ctx)
	assert.Empty(t, s.Items())
	assert.NotContains(t, st.data, "cart:u1")
}

func TestRehydration_MalformedJSONStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	st.data["cart:u1"] = []byte("{not json")

	s := NewStore(ctx, st, "cart:u1")
	assert.Empty(t, s.Items())
}

func TestRehydration_DropsInvalidItems(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	st.data["cart:u1"] = []byte(`[
		{"productId":"p1","name":"Guitarra","unitPrice":10,"quantity":2},
		{"productId":"","name":"sin id","unitPrice":1,"quantity":1},
		{"productId":"p3","name":"Cable","unitPrice":3,"quantity":0},
		{"productId":"p4","name":"Púa","unitPrice":-1,"quantity":1}
	]`)

	s := NewStore(ctx, st, "cart:u1")
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestRehydration_ReadFailureStartsEmpty(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	st.failGet = true

	s := NewStore(ctx, st, "cart:u1")
	assert.Empty(t, s.Items())
}

func TestWriteFailure_InMemoryStateStaysAuthoritative(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := NewStore(ctx, st, "cart:u1")

	st.failSet = true
	s.Add(ctx, guitar)
	assert.Equal(t, 1, s.Count())
	assert.NotContains(t, st.data, "cart:u1")

	// Storage recovers; the next mutation writes the full state again.
	st.failSet = false
	s.Add(ctx, capo)
	assert.Contains(t, st.data, "cart:u1")

	reloaded := NewStore(ctx, st, "cart:u1")
	assert.Equal(t, 2, reloaded.Count())
}

func TestVisibilityFlag(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := NewStore(ctx, st, "cart:u1")

	assert.False(t, s.IsOpen())
	s.Toggle()
	assert.True(t, s.IsOpen())
	s.SetOpen(false)
	assert.False(t, s.IsOpen())

	// Visibility is UI state only and never persisted.
	assert.NotContains(t, st.data, "cart:u1")
}
