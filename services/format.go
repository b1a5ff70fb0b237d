package services

import (
	"fmt"
	"strings"
)

const ghanaCountryCode = "233"

// FormatPhoneGH normalizes a Ghanaian phone number to international dialing
// format: non-digits stripped, a leading trunk '0' replaced by the country
// code, and a bare 9-digit subscriber number prefixed with it. Applied once,
// at order creation, so every notification channel sees the same number.
func FormatPhoneGH(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	switch {
	case strings.HasPrefix(clean, "0"):
		return ghanaCountryCode + clean[1:]
	case len(clean) == 9:
		return ghanaCountryCode + clean
	default:
		return clean
	}
}

// FormatCurrency renders an amount as Ghana cedis with thousands grouping,
// e.g. 3025 -> "GH₵3,025.00".
func FormatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sGH₵%s.%s", sign, grouped.String(), parts[1])
}

func formatOrderNumber(n int64) string {
	return fmt.Sprintf("%d", n)
}

// DeriveCustomerName extracts the customer name from a legacy notes blob
// ("Name - rest of notes"). Split on the first separator only; blank input
// falls back to a generic placeholder.
func DeriveCustomerName(notes string) string {
	name := strings.TrimSpace(strings.SplitN(notes, " - ", 2)[0])
	if name == "" {
		return "Customer"
	}
	return name
}
