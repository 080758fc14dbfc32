package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-storefront/internal/api"
	"tienda-storefront/internal/orders"
	"tienda-storefront/internal/product"
	"tienda-storefront/internal/session"
	"tienda-storefront/internal/storage"
)

// backendState drives the fake upstream service behind the facade.
type backendState struct {
	products []product.Product
	orders   []orders.Order
}

func fakeBackend(t *testing.T, state *backendState) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /products", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(state.products)
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range state.products {
			if p.ID == r.PathValue("id") {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Producto no encontrado"}`))
	})
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		var in orders.CreateOrderInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		order := orders.Order{
			ID:              "srv-1",
			Items:           in.Items,
			ShippingAddress: in.ShippingAddress,
			TotalPrice:      in.TotalPrice,
			PaymentMethod:   in.PaymentMethod,
			PaymentInfo:     in.PaymentInfo,
			Status:          orders.StatusPendiente,
			CreatedAt:       time.Now(),
		}
		state.orders = append(state.orders, order)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(order)
	})
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(state.orders)
	})
	mux.HandleFunc("PUT /orders/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		for i := range state.orders {
			if state.orders[i].ID == r.PathValue("id") {
				state.orders[i].Status = orders.StatusCancelado
				_ = json.NewEncoder(w).Encode(state.orders[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Pedido no encontrado"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newFacade(t *testing.T, state *backendState) *httptest.Server {
	t.Helper()
	backend := fakeBackend(t, state)
	client := api.NewClient(backend.URL, nil)

	st, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	s := session.New(context.Background(), session.Config{
		Storage: st,
		API:     client,
		Profile: session.Profile{Username: "juan", Email: "juan@example.com"},
	})

	facade := httptest.NewServer(NewHandler(s, client).Router())
	t.Cleanup(facade.Close)
	return facade
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

var catalog = []product.Product{
	{ID: "p1", Name: "Guitarra", Price: 10.00},
	{ID: "p2", Name: "Capo", Price: 5.50},
}

func TestCartEndpoints(t *testing.T) {
	facade := newFacade(t, &backendState{products: catalog})

	resp := doJSON(t, http.MethodPost, facade.URL+"/api/cart/items", map[string]string{"productId": "p1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, facade.URL+"/api/cart/items", map[string]string{"productId": "p1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[cartResponse](t, resp)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)

	resp = doJSON(t, http.MethodPut, facade.URL+"/api/cart/items/p1", map[string]int{"quantity": 0})
	state = decode[cartResponse](t, resp)
	assert.Empty(t, state.Items)

	resp = doJSON(t, http.MethodPost, facade.URL+"/api/cart/items", map[string]string{"productId": "zzz"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckoutFlowOverHTTP(t *testing.T) {
	facade := newFacade(t, &backendState{products: catalog})

	for _, id := range []string{"p1", "p1", "p2"} {
		resp := doJSON(t, http.MethodPost, facade.URL+"/api/cart/items", map[string]string{"productId": id})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodPost, facade.URL+"/api/checkout", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	st := decode[checkoutState](t, resp)
	assert.Equal(t, 1, st.Step)
	assert.InDelta(t, 25.50, st.Total, 1e-9)

	// Review → Shipping
	resp = doJSON(t, http.MethodPost, facade.URL+"/api/checkout/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Shipping with a missing email is rejected field-by-field.
	resp = doJSON(t, http.MethodPost, facade.URL+"/api/checkout/next", map[string]any{
		"shipping": map[string]string{"fullName": "Juan"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	fieldResp := decode[map[string]map[string]string](t, resp)
	assert.Equal(t, "El email es requerido", fieldResp["errors"]["email"])

	resp = doJSON(t, http.MethodPost, facade.URL+"/api/checkout/next", map[string]any{
		"shipping": map[string]string{
			"fullName":   "Juan Pérez",
			"email":      "juan@example.com",
			"phone":      "+52 123",
			"address":    "Av. Siempre Viva 742",
			"city":       "CDMX",
			"postalCode": "01000",
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Payment (store) → Confirm
	resp = doJSON(t, http.MethodPost, facade.URL+"/api/checkout/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st = decode[checkoutState](t, resp)
	require.Equal(t, 4, st.Step)

	resp = doJSON(t, http.MethodPost, facade.URL+"/api/checkout/submit", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[orders.Order](t, resp)
	assert.Equal(t, "srv-1", order.ID)
	assert.InDelta(t, 25.50, order.TotalPrice, 1e-9)
	assert.Nil(t, order.PaymentInfo)

	resp = doJSON(t, http.MethodGet, facade.URL+"/api/cart", nil)
	cartSt := decode[cartResponse](t, resp)
	assert.Equal(t, 0, cartSt.Count)
}

func TestCheckoutEmptyCartBlocked(t *testing.T) {
	facade := newFacade(t, &backendState{products: catalog})

	resp := doJSON(t, http.MethodPost, facade.URL+"/api/checkout", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, facade.URL+"/api/checkout/next", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOrdersEndpoints(t *testing.T) {
	state := &backendState{
		products: catalog,
		orders: []orders.Order{
			{ID: "o1", Status: orders.StatusPendiente},
			{ID: "o2", Status: orders.StatusEnviado},
		},
	}
	facade := newFacade(t, state)

	resp := doJSON(t, http.MethodGet, facade.URL+"/api/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listResp := decode[struct {
		Orders []orders.Order `json:"orders"`
	}](t, resp)
	require.Len(t, listResp.Orders, 2)

	// A shipped order no longer offers cancellation.
	resp = doJSON(t, http.MethodPut, facade.URL+"/api/orders/o2/cancel", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, facade.URL+"/api/orders/o1/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cancelled := decode[orders.Order](t, resp)
	assert.Equal(t, orders.StatusCancelado, cancelled.Status)

	resp = doJSON(t, http.MethodGet, facade.URL+"/api/orders", nil)
	listResp = decode[struct {
		Orders []orders.Order `json:"orders"`
	}](t, resp)
	assert.Equal(t, orders.StatusCancelado, listResp.Orders[0].Status)
}

func TestProductsPassthrough(t *testing.T) {
	facade := newFacade(t, &backendState{products: catalog})

	resp := doJSON(t, http.MethodGet, facade.URL+"/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]product.Product](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, "Guitarra", list[0].Name)
}
