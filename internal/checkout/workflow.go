package checkout

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"tienda-storefront/internal/cart"
	"tienda-storefront/internal/logger"
	"tienda-storefront/internal/orders"
)

const defaultCountry = "México"

// Workflow drives the four-step checkout wizard for one draft order:
// Review → Shipping → Payment → Confirm, then a single submission. One
// Workflow is created per checkout attempt and becomes terminal once
// submitted.
type Workflow struct {
	mu sync.Mutex

	step     Step
	shipping ShippingForm
	// snapshot holds the shipping values that actually passed validation.
	// Later form edits do not touch it until Shipping is passed again.
	snapshot ShippingForm
	payment  orders.PaymentMethod
	card     CardForm

	submitting bool
	submitted  *orders.Order

	cart    *cart.Store
	manager *orders.Manager
}

// NewWorkflow starts a draft at Review, seeding the shipping form from the
// session profile defaults.
func NewWorkflow(cartStore *cart.Store, manager *orders.Manager, defaults ShippingForm) *Workflow {
	if defaults.Country == "" {
		defaults.Country = defaultCountry
	}
	return &Workflow{
		step:     StepReview,
		shipping: defaults,
		payment:  orders.PaymentStore,
		cart:     cartStore,
		manager:  manager,
	}
}

func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// SetShipping replaces the live form values. A snapshot already taken at the
// Shipping gate is not invalidated until that step is passed again.
func (w *Workflow) SetShipping(f ShippingForm) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if f.Country == "" {
		f.Country = defaultCountry
	}
	w.shipping = f
}

func (w *Workflow) Shipping() ShippingForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shipping
}

func (w *Workflow) SetPaymentMethod(m orders.PaymentMethod) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.payment = m
}

func (w *Workflow) PaymentMethod() orders.PaymentMethod {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.payment
}

func (w *Workflow) SetCard(f CardForm) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.card = f
}

// Next validates the current step and advances on success. The returned error
// is either a precondition sentinel or a FieldErrors with per-field messages;
// the step never moves on failure.
func (w *Workflow) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted != nil {
		return ErrAlreadySubmitted
	}

	switch w.step {
	case StepReview:
		if w.cart.Count() == 0 {
			return ErrEmptyCart
		}
		w.step = StepShipping

	case StepShipping:
		if errs := validateShipping(w.shipping); errs != nil {
			return errs
		}
		w.snapshot = w.shipping
		w.step = StepPayment

	case StepPayment:
		if w.payment == orders.PaymentCard {
			if errs := validateCard(w.card); errs != nil {
				return errs
			}
		}
		w.step = StepConfirm

	case StepConfirm:
		return ErrConfirmIsFinal
	}
	return nil
}

// Back moves one step towards Review. It never validates and never discards
// entered values.
func (w *Workflow) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted == nil && w.step > StepReview {
		w.step--
	}
}

// Total is the live cart total, recomputed on every call. After submission
// the immutable server snapshot is the one to show instead.
func (w *Workflow) Total() float64 {
	return w.cart.Total()
}

// Submit sends the draft as an order. On success the workflow becomes
// terminal, carrying the server record, and the cart is cleared. On failure
// the wizard stays on Confirm with every field intact and may be resubmitted.
func (w *Workflow) Submit(ctx context.Context) (*orders.Order, error) {
	w.mu.Lock()
	if w.submitted != nil {
		w.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if w.step != StepConfirm {
		w.mu.Unlock()
		return nil, ErrNotConfirmStep
	}

	// The cart may have been emptied by a concurrent action during checkout.
	items := w.cart.Items()
	if len(items) == 0 {
		w.mu.Unlock()
		return nil, ErrEmptyCart
	}

	// The payment method can still be switched on Confirm; card fields must
	// hold up at the moment of submission.
	if w.payment == orders.PaymentCard {
		if errs := validateCard(w.card); errs != nil {
			w.mu.Unlock()
			return nil, errs
		}
	}

	input := w.buildInput(items)
	w.submitting = true
	w.mu.Unlock()

	order, err := w.manager.CreateOrder(ctx, input)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		return nil, err
	}

	w.submitted = order
	w.cart.Clear(ctx)
	logger.FromCtx(ctx).Info("order placed",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.TotalPrice))
	return order, nil
}

// Submitting reports whether a submission is outstanding.
func (w *Workflow) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Order returns the server record once the draft has been submitted.
func (w *Workflow) Order() *orders.Order {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted == nil {
		return nil
	}
	cp := *w.submitted
	return &cp
}

// buildInput assembles the wire payload from the cart snapshot and the
// validated shipping snapshot. Caller holds the lock.
func (w *Workflow) buildInput(items []cart.Item) orders.CreateOrderInput {
	orderItems := make([]orders.OrderItem, 0, len(items))
	total := 0.0
	for _, it := range items {
		orderItems = append(orderItems, orders.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
		total += it.UnitPrice * float64(it.Quantity)
	}

	input := orders.CreateOrderInput{
		Items: orderItems,
		ShippingAddress: orders.ShippingAddress{
			FullName:   w.snapshot.FullName,
			Email:      w.snapshot.Email,
			Phone:      w.snapshot.Phone,
			Address:    w.snapshot.Address,
			City:       w.snapshot.City,
			PostalCode: w.snapshot.PostalCode,
			Country:    w.snapshot.Country,
		},
		TotalPrice:    total,
		Notes:         w.snapshot.Notes,
		PaymentMethod: w.payment,
	}

	if w.payment == orders.PaymentCard {
		number := stripSpaces(w.card.Number)
		input.PaymentInfo = &orders.PaymentInfo{
			CardLastDigits: number[len(number)-4:],
		}
	}
	return input
}
