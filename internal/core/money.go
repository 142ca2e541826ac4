// Package core provides amount parsing and formatting utilities.
//
// This file contains the helpers used by the input layer to turn typed
// amounts into rates and to render amounts in the single fixed currency.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// CurrencySuffix is the unit appended to every formatted amount.
const CurrencySuffix = "ج.م"

// FormatCurrency renders amount with two decimals followed by the currency unit.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("%.2f %s", amount, CurrencySuffix)
}

// ParseAmount converts a decimal string to a positive amount.
//
// It accepts both dot (12.5) and comma (12,5) decimal separators. Signs,
// exponents, zero and non-finite values are rejected.
//
// Examples:
//
//	ParseAmount("100")   -> 100, nil
//	ParseAmount("12,50") -> 12.5, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
