package checkout

// Step is the wizard position. Steps are linear; forward movement is gated,
// backward movement is always free.
type Step int

const (
	StepReview Step = iota + 1
	StepShipping
	StepPayment
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepReview:
		return "review"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirm:
		return "confirm"
	}
	return "unknown"
}

// ShippingForm holds the step-2 fields. Country defaults from the session
// profile; notes are optional.
type ShippingForm struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Notes      string `json:"notes,omitempty"`
}

// CardForm holds the step-3 fields when paying by card. Only a last-4-digits
// proxy ever leaves this process.
type CardForm struct {
	Number string `json:"cardNumber"`
	Holder string `json:"cardName"`
	Expiry string `json:"cardExpiry"`
	CVV    string `json:"cardCvv"`
}
