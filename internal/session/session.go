package session

import (
	"context"

	"github.com/google/uuid"

	"tienda-storefront/internal/auth"
	"tienda-storefront/internal/cart"
	"tienda-storefront/internal/checkout"
	"tienda-storefront/internal/orders"
	"tienda-storefront/internal/storage"
)

// Profile is what the external auth service tells us about the shopper. It
// seeds the checkout defaults; it is never validated here.
type Profile struct {
	Username string
	Email    string
}

// Session owns all per-shopper state: the cart, the order collection and the
// credentials used against the backend. One Session lives per user session
// and is handed to consumers explicitly, never reached as a global.
type Session struct {
	ID          uuid.UUID
	Profile     Profile
	Cart        *cart.Store
	Orders      *orders.Manager
	Credentials *auth.Credentials

	country string
}

type Config struct {
	Storage        storage.Store
	API            orders.API
	Profile        Profile
	Credentials    *auth.Credentials
	DefaultCountry string
}

// New builds a session, rehydrating the cart persisted under the shopper's
// key. A guest gets a shared guest cart.
func New(ctx context.Context, cfg Config) *Session {
	owner := cfg.Profile.Username
	if owner == "" {
		owner = "guest"
	}

	return &Session{
		ID:          uuid.New(),
		Profile:     cfg.Profile,
		Cart:        cart.NewStore(ctx, cfg.Storage, "cart:"+owner),
		Orders:      orders.NewManager(cfg.API),
		Credentials: cfg.Credentials,
		country:     cfg.DefaultCountry,
	}
}

// BeginCheckout opens a fresh draft at the Review step, seeded from the
// profile, and closes the cart panel. Abandoning the returned workflow resets
// the draft; the next call starts over.
func (s *Session) BeginCheckout() *checkout.Workflow {
	s.Cart.SetOpen(false)
	return checkout.NewWorkflow(s.Cart, s.Orders, checkout.ShippingForm{
		FullName: s.Profile.Username,
		Email:    s.Profile.Email,
		Country:  s.country,
	})
}
