package checkout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern  = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
	digitsPattern = regexp.MustCompile(`^\d{15,19}$`)
)

// validateShipping checks the required step-2 fields. Country and notes are
// never required.
func validateShipping(f ShippingForm) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.FullName) == "" {
		errs["fullName"] = "El nombre es requerido"
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		errs["email"] = "El email es requerido"
	case !emailPattern.MatchString(f.Email):
		errs["email"] = "Email no válido"
	}
	if strings.TrimSpace(f.Phone) == "" {
		errs["phone"] = "El teléfono es requerido"
	}
	if strings.TrimSpace(f.Address) == "" {
		errs["address"] = "La dirección es requerida"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "La ciudad es requerida"
	}
	if strings.TrimSpace(f.PostalCode) == "" {
		errs["postalCode"] = "El código postal es requerido"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateCard checks the step-3 fields for the card payment path. The card
// number may contain spaces; they are stripped before the digit count check.
func validateCard(f CardForm) FieldErrors {
	errs := FieldErrors{}

	number := stripSpaces(f.Number)
	switch {
	case number == "":
		errs["cardNumber"] = "El número de tarjeta es requerido"
	case !digitsPattern.MatchString(number):
		errs["cardNumber"] = "Número de tarjeta inválido"
	}

	switch {
	case strings.TrimSpace(f.Holder) == "":
		errs["cardName"] = "El nombre es requerido"
	case utf8.RuneCountInString(strings.TrimSpace(f.Holder)) < 3:
		errs["cardName"] = "Nombre muy corto"
	}

	switch {
	case f.Expiry == "":
		errs["cardExpiry"] = "La fecha es requerida"
	case !expiryPattern.MatchString(f.Expiry):
		errs["cardExpiry"] = "Formato inválido (MM/AA)"
	}

	switch {
	case f.CVV == "":
		errs["cardCvv"] = "El CVV es requerido"
	case !cvvPattern.MatchString(f.CVV):
		errs["cardCvv"] = "CVV inválido"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
