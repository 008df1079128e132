package utils

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Cents converts a decimal rupee amount into integer paise.
// All monetary arithmetic in the core runs on int64 paise.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Decimal converts integer paise back to a decimal rupee amount for display.
func Decimal(cents int64) float64 {
	return float64(cents) / 100
}

// GenerateBillNo generates a unique bill number
func GenerateBillNo() string {
	return "BILL-" + strings.ToUpper(uuid.New().String()[:8])
}
