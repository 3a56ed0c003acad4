package money

import "strings"

const nbsp = "\u00a0"

// Format renders a for display: USD as "$1234.56" without grouping, EUR in
// the de-DE convention ("1.234,56 €").
func Format(a Amount, c Currency) string {
	fixed := a.d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	if a.d.Round(2).IsZero() {
		neg = false
	}

	sign := ""
	if neg {
		sign = "-"
	}

	switch c {
	case EUR:
		intPart, frac, _ := strings.Cut(fixed, ".")
		return sign + groupThousands(intPart, ".") + "," + frac + nbsp + "€"
	default:
		return sign + "$" + fixed
	}
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
