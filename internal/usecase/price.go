package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/prezzoscout/backend/internal/domain"
)

// NormalizePrice turns a price of unknown shape into a positive finite
// amount. Textual prices may use European ("1.200,00") or American
// ("1,200.00") thousands/decimal notation: when both separators appear, the
// earlier one is treated as the thousands separator and removed. A price
// that fails to parse, or is zero or negative, rejects with ErrInvalidPrice.
func NormalizePrice(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return checkAmount(v)
	case float32:
		return checkAmount(float64(v))
	case int:
		return checkAmount(float64(v))
	case int64:
		return checkAmount(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, v.String())
		}
		return checkAmount(f)
	case string:
		return normalizeTextualPrice(v)
	case nil:
		return 0, fmt.Errorf("%w: missing value", domain.ErrInvalidPrice)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", domain.ErrInvalidPrice, value)
	}
}

func normalizeTextualPrice(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, s)
	}

	dot := strings.Index(clean, ".")
	comma := strings.Index(clean, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if dot < comma {
			// European: dot groups thousands, comma is the decimal point.
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			// American: comma groups thousands.
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case comma >= 0:
		clean = strings.Replace(clean, ",", ".", 1)
	}

	amount, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, s)
	}
	return checkAmount(amount)
}

func checkAmount(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidPrice, v)
	}
	return v, nil
}
