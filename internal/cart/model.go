package cart

// Item is one line in the cart: a product snapshot plus the picked quantity.
// The persisted cart is a JSON array of these.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// valid reports whether a rehydrated item carries every required field.
// Invalid entries are dropped on load so corrupted storage never breaks
// session start.
func (i Item) valid() bool {
	return i.ProductID != "" && i.Name != "" && i.UnitPrice >= 0 && i.Quantity >= 1
}
