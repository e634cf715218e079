// Package util holds small cross-cutting helpers.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

const lovelacePerAda = 1_000_000

// FormatAmount renders a smallest-unit amount string for display. Lovelace
// amounts are converted to ADA with two decimal places; any other unit (or
// a non-numeric amount) is passed through untouched.
func FormatAmount(amount, unit string) string {
	if !strings.EqualFold(unit, "lovelace") && unit != "" {
		return amount + " " + unit
	}
	n, err := strconv.ParseInt(amount, 10, 64)
	if err != nil {
		return amount
	}
	whole := n / lovelacePerAda
	frac := (n % lovelacePerAda) * 100 / lovelacePerAda
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d ADA", whole, frac)
}

// Truncate shortens s to at most n runes, appending an ellipsis marker when
// anything was cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
