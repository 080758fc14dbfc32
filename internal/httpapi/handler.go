package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tienda-storefront/internal/cart"
	"tienda-storefront/internal/checkout"
	"tienda-storefront/internal/logger"
	"tienda-storefront/internal/orders"
	"tienda-storefront/internal/product"
	"tienda-storefront/internal/session"
)

// Catalog is the slice of the backend client the facade needs for products.
type Catalog interface {
	GetProducts(ctx context.Context) ([]product.Product, error)
	GetProductByID(ctx context.Context, id string) (*product.Product, error)
}

// Handler exposes one shopper session to a thin UI as JSON endpoints. It
// holds the in-progress checkout draft; abandoning it and starting over is
// just another POST /api/checkout.
type Handler struct {
	mu       sync.Mutex
	workflow *checkout.Workflow

	session *session.Session
	catalog Catalog
}

func NewHandler(s *session.Session, catalog Catalog) *Handler {
	return &Handler{session: s, catalog: catalog}
}

type cartResponse struct {
	Items  []cart.Item `json:"items"`
	Total  float64     `json:"total"`
	Count  int         `json:"count"`
	IsOpen bool        `json:"isOpen"`
}

func (h *Handler) cartState() cartResponse {
	c := h.session.Cart
	items := c.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{
		Items:  items,
		Total:  c.Total(),
		Count:  c.Count(),
		IsOpen: c.IsOpen(),
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.cartState())
}

// AddCartItem looks the product up in the catalog and adds one unit.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeMessages(w, http.StatusBadRequest, "productId es requerido")
		return
	}

	p, err := h.catalog.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		writeRemoteError(w, r.Context(), err, "Producto no encontrado")
		return
	}

	h.session.Cart.Add(r.Context(), *p)
	writeJSON(w, http.StatusOK, h.cartState())
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessages(w, http.StatusBadRequest, "cantidad inválida")
		return
	}

	h.session.Cart.SetQuantity(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	writeJSON(w, http.StatusOK, h.cartState())
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.session.Cart.Remove(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, h.cartState())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.session.Cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, h.cartState())
}

func (h *Handler) ToggleCart(w http.ResponseWriter, _ *http.Request) {
	h.session.Cart.Toggle()
	writeJSON(w, http.StatusOK, h.cartState())
}

type checkoutState struct {
	Step       int           `json:"step"`
	StepName   string        `json:"stepName"`
	Total      float64       `json:"total"`
	Submitted  bool          `json:"submitted"`
	Submitting bool          `json:"submitting"`
	Order      *orders.Order `json:"order,omitempty"`
}

func stateOf(w *checkout.Workflow) checkoutState {
	order := w.Order()
	return checkoutState{
		Step:       int(w.Step()),
		StepName:   w.Step().String(),
		Total:      w.Total(),
		Submitted:  order != nil,
		Submitting: w.Submitting(),
		Order:      order,
	}
}

// StartCheckout opens a fresh draft, discarding any previous one.
func (h *Handler) StartCheckout(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	h.workflow = h.session.BeginCheckout()
	wf := h.workflow
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, stateOf(wf))
}

func (h *Handler) GetCheckout(w http.ResponseWriter, _ *http.Request) {
	wf, ok := h.currentWorkflow()
	if !ok {
		writeMessages(w, http.StatusNotFound, "no hay un checkout en curso")
		return
	}
	writeJSON(w, http.StatusOK, stateOf(wf))
}

// checkoutInput carries the optional form updates sent along with a step
// transition.
type checkoutInput struct {
	Shipping      *checkout.ShippingForm `json:"shipping,omitempty"`
	PaymentMethod *orders.PaymentMethod  `json:"paymentMethod,omitempty"`
	Card          *checkout.CardForm     `json:"card,omitempty"`
}

func (h *Handler) applyInput(r *http.Request, wf *checkout.Workflow) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	var in checkoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return err
	}
	if in.Shipping != nil {
		wf.SetShipping(*in.Shipping)
	}
	if in.PaymentMethod != nil {
		wf.SetPaymentMethod(*in.PaymentMethod)
	}
	if in.Card != nil {
		wf.SetCard(*in.Card)
	}
	return nil
}

func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.currentWorkflow()
	if !ok {
		writeMessages(w, http.StatusNotFound, "no hay un checkout en curso")
		return
	}
	if err := h.applyInput(r, wf); err != nil {
		writeMessages(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}

	if err := wf.Next(); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(wf))
}

func (h *Handler) PrevStep(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.currentWorkflow()
	if !ok {
		writeMessages(w, http.StatusNotFound, "no hay un checkout en curso")
		return
	}
	wf.Back()
	writeJSON(w, http.StatusOK, stateOf(wf))
}

func (h *Handler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	wf, ok := h.currentWorkflow()
	if !ok {
		writeMessages(w, http.StatusNotFound, "no hay un checkout en curso")
		return
	}
	if err := h.applyInput(r, wf); err != nil {
		writeMessages(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}

	order, err := wf.Submit(r.Context())
	if err != nil {
		var reqErr *orders.RequestError
		if errors.As(err, &reqErr) {
			writeJSON(w, http.StatusBadGateway, map[string][]string{"message": h.session.Orders.Errors()})
			return
		}
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	_ = h.session.Orders.GetMyOrders(r.Context())

	list := h.session.Orders.Orders()
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": list,
		"errors": h.session.Orders.Errors(),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.session.Orders.GetOrderByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRemoteError(w, r.Context(), err, "Error al obtener el pedido")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// CancelOrder applies the shopper-side gate before asking the backend: only
// pending and confirmed orders offer cancellation at all.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, o := range h.session.Orders.Orders() {
		if o.ID == id && !o.Cancellable() {
			writeMessages(w, http.StatusConflict, "El pedido ya no puede ser cancelado")
			return
		}
	}

	order, err := h.session.Orders.CancelOrder(r.Context(), id)
	if err != nil {
		writeRemoteError(w, r.Context(), err, "Error al cancelar el pedido")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.GetProducts(r.Context())
	if err != nil {
		writeRemoteError(w, r.Context(), err, "Error al obtener los productos")
		return
	}
	if list == nil {
		list = []product.Product{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRemoteError(w, r.Context(), err, "Producto no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) currentWorkflow() (*checkout.Workflow, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.workflow, h.workflow != nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessages answers with the same {"message": [...]} shape the upstream
// service uses, so the UI has one error format to deal with.
func writeMessages(w http.ResponseWriter, status int, msgs ...string) {
	writeJSON(w, status, map[string][]string{"message": msgs})
}

func writeWorkflowError(w http.ResponseWriter, err error) {
	var fieldErrs checkout.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrAlreadySubmitted),
		errors.Is(err, checkout.ErrSubmitInFlight),
		errors.Is(err, checkout.ErrConfirmIsFinal),
		errors.Is(err, checkout.ErrNotConfirmStep):
		writeMessages(w, http.StatusConflict, err.Error())
	default:
		writeMessages(w, http.StatusInternalServerError, err.Error())
	}
}

func writeRemoteError(w http.ResponseWriter, ctx context.Context, err error, fallback string) {
	logger.FromCtx(ctx).Warn("backend request failed", zap.Error(err))

	var reqErr *orders.RequestError
	if errors.As(err, &reqErr) {
		msgs := reqErr.Messages
		if len(msgs) == 0 {
			msgs = []string{fallback}
		}
		writeJSON(w, reqErr.StatusCode, map[string][]string{"message": msgs})
		return
	}
	writeMessages(w, http.StatusBadGateway, fallback)
}
