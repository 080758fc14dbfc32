package checkout

import "strings"

// FormatCardNumber regroups the digits in blocks of four for display. Pure
// presentation: validation always works on the stripped value.
func FormatCardNumber(s string) string {
	digits := stripSpaces(s)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry inserts the slash after the month digits while typing.
func FormatExpiry(s string) string {
	var digits []rune
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) < 2 {
		return string(digits)
	}
	return string(digits[:2]) + "/" + string(digits[2:])
}
