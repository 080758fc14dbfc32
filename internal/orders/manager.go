package orders

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"tienda-storefront/internal/logger"
)

// Fallback display messages used when the backend rejection carries none.
const (
	msgCreateFailed = "Error al crear el pedido"
	msgListFailed   = "Error al obtener los pedidos"
	msgFetchFailed  = "Error al obtener el pedido"
	msgCancelFailed = "Error al cancelar el pedido"
)

// API is the slice of the backend client the manager needs.
type API interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	GetMyOrders(ctx context.Context) ([]Order, error)
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	CancelOrder(ctx context.Context, id string) (*Order, error)
}

// Manager owns the authenticated shopper's order collection. Local state only
// changes after the backend confirms, so a rejected order is never shown.
type Manager struct {
	mu      sync.Mutex
	orders  []Order
	current *Order
	busy    bool
	errs    []string

	api API
}

func NewManager(api API) *Manager {
	return &Manager{api: api}
}

// CreateOrder submits the assembled payload. The confirmed order is prepended
// to the collection (most recent first) and returned; on rejection the
// normalized messages are recorded and the error re-raised so the caller can
// stay on the failing step.
func (m *Manager) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	m.begin(true)
	defer m.settle()

	order, err := m.api.CreateOrder(ctx, input)
	if err != nil {
		logger.FromCtx(ctx).Warn("create order rejected", zap.Error(err))
		m.recordFailure(err, msgCreateFailed)
		return nil, err
	}

	m.mu.Lock()
	m.orders = append([]Order{*order}, m.orders...)
	m.mu.Unlock()
	return order, nil
}

// GetMyOrders replaces the whole collection with the backend's current list.
// On failure the previously loaded list is kept; stale beats empty.
func (m *Manager) GetMyOrders(ctx context.Context) error {
	m.begin(false)
	defer m.settle()

	list, err := m.api.GetMyOrders(ctx)
	if err != nil {
		logger.FromCtx(ctx).Warn("refresh orders failed", zap.Error(err))
		m.recordFailure(err, msgListFailed)
		return err
	}

	m.mu.Lock()
	m.orders = list
	m.mu.Unlock()
	return nil
}

// GetOrderByID fetches one order and makes it the current order for detail
// viewing. On failure the current order is left unchanged.
func (m *Manager) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	m.begin(false)
	defer m.settle()

	order, err := m.api.GetOrderByID(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Warn("fetch order failed",
			zap.String("order_id", id), zap.Error(err))
		m.recordFailure(err, msgFetchFailed)
		return nil, err
	}

	m.mu.Lock()
	m.current = order
	m.mu.Unlock()
	return order, nil
}

// CancelOrder requests cancellation. Success replaces the matching entry in
// place with the backend's updated record; cancellation is a status
// transition, never a removal. The backend's rejection of a non-cancellable
// order propagates as a failure like any other.
func (m *Manager) CancelOrder(ctx context.Context, id string) (*Order, error) {
	m.begin(false)
	defer m.settle()

	updated, err := m.api.CancelOrder(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Warn("cancel order rejected",
			zap.String("order_id", id), zap.Error(err))
		m.recordFailure(err, msgCancelFailed)
		return nil, err
	}

	m.mu.Lock()
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i] = *updated
			break
		}
	}
	m.mu.Unlock()
	return updated, nil
}

// Orders returns a copy of the collection, most recently created first.
func (m *Manager) Orders() []Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Order, len(m.orders))
	copy(out, m.orders)
	return out
}

// Current returns the order selected for detail viewing, if any.
func (m *Manager) Current() *Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}
	cp := *m.current
	return &cp
}

// Busy is true exactly while any manager request is outstanding.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// Errors returns the display messages recorded by the last failed operation.
func (m *Manager) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.errs))
	copy(out, m.errs)
	return out
}

func (m *Manager) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = nil
}

func (m *Manager) begin(resetErrors bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = true
	if resetErrors {
		m.errs = nil
	}
}

func (m *Manager) settle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
}

func (m *Manager) recordFailure(err error, fallback string) {
	msgs := []string{fallback}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && len(reqErr.Messages) > 0 {
		msgs = reqErr.Messages
	}

	m.mu.Lock()
	m.errs = msgs
	m.mu.Unlock()
}
