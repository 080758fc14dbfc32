package product

// Product is a catalog item as served by the backend. The backend owns the
// identifier; the storefront only ever reads products.
type Product struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Year  int     `json:"year,omitempty"`
	Image string  `json:"image,omitempty"`
}
