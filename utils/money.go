package utils

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmountCents "12.50" / "12,5" -> 1250. Pemisah ribuan tidak didukung.
func ParseAmountCents(raw string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, errors.New("amount kosong")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.New("amount bukan angka")
	}
	cents := d.Mul(decimal.NewFromInt(100)).Round(0)
	if !cents.IsPositive() {
		return 0, errors.New("amount harus > 0")
	}
	if cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, errors.New("amount terlalu besar")
	}
	return cents.IntPart(), nil
}

func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
