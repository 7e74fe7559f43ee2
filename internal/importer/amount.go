package importer

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrEmptyAmount = errors.New("empty amount")

// ParseAmount reads an amount written with either decimal separator.
// When both '.' and ',' appear the last one is the decimal separator, so
// "1.234,56" and "1,234.56" both read as 1234.56. A lone ',' is a decimal
// comma ("12,50"); a repeated separator only groups thousands. Spaces and
// a currency sign are ignored.
func ParseAmount(s string) (float64, error) {
	clean := strings.NewReplacer(" ", "", "\u00a0", "", "€", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, ErrEmptyAmount
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case lastDot >= 0 && lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	case lastComma >= 0 && strings.Count(clean, ",") > 1:
		clean = strings.ReplaceAll(clean, ",", "")
	case lastComma >= 0:
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.InexactFloat64(), nil
}
