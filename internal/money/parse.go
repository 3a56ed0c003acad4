package money

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Policy selects how free-form money text is cleaned before parsing.
type Policy int

const (
	// Strict drops every character that is not an ASCII digit or '.'.
	// Suited to "$1,234.50" style strings.
	Strict Policy = iota
	// Locale strips whitespace and currency symbols, treats '.' as a
	// thousands separator and ',' as the decimal point ("1.234,50 €").
	Locale
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Locale:
		return "locale"
	default:
		return "unknown"
	}
}

var trailingCommaDecimals = regexp.MustCompile(`,\d{1,2}$`)

// Parse never fails: text that does not yield a finite number is zero.
func Parse(p Policy, s string) Amount {
	var cleaned string
	switch p {
	case Locale:
		cleaned = cleanLocale(s)
	default:
		cleaned = cleanStrict(s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Zero()
	}
	return Amount{d: d}
}

func ParseStrict(s string) Amount { return Parse(Strict, s) }

func ParseLocale(s string) Amount { return Parse(Locale, s) }

// Detect guesses which policy produced s. Euro amounts and strings whose
// last separator is a comma followed by one or two digits are Locale.
func Detect(s string) Policy {
	if strings.ContainsRune(s, '€') {
		return Locale
	}
	bare := strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '$'
	})
	if trailingCommaDecimals.MatchString(bare) {
		return Locale
	}
	return Strict
}

func ParseAuto(s string) Amount { return Parse(Detect(s), s) }

func cleanStrict(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cleanLocale(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '€' || r == '$' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Replace(b.String(), ",", ".", 1)
}
