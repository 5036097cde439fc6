// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatEuro formats an amount with comma thousands grouping, two decimals
// and a trailing euro sign, e.g. "140,000.00 €".
func FormatEuro(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")

	result := groupThousands(parts[0]) + "." + parts[1] + " €"
	if negative && str != "0.00" {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatSignedEuro formats an amount with an explicit sign for gains.
func FormatSignedEuro(amount float64) string {
	formatted := FormatEuro(amount)
	if amount > 0 && formatted != "0.00 €" {
		return "+" + formatted
	}
	return formatted
}

// FormatPercent formats a percentage with two decimals.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatRate formats a loan rate and duration, e.g. "3.50% / 20y".
func FormatRate(ratePercent float64, years int) string {
	return fmt.Sprintf("%.2f%% / %dy", ratePercent, years)
}
