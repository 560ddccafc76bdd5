// Package numeric parses user-edited numeric cells from the imported CSV
// files. Transaction logs are hand-maintained, so a single malformed cell
// must never abort aggregation over thousands of rows: malformed input maps
// to zero (for accumulation contexts) or "absent" (for optional display
// fields) instead of an error.
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// ParseOptional parses a cell that may contain currency symbols, thousands
// separators or surrounding whitespace. It reports ok == false for empty or
// malformed input, and never returns NaN or Inf.
func ParseOptional(s string) (float64, bool) {
	cleaned := clean(s)
	if cleaned == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseAmount is ParseOptional with a zero default, for accumulation
// contexts where a bad cell should simply contribute nothing.
func ParseAmount(s string) float64 {
	v, _ := ParseOptional(s)
	return v
}

// clean strips everything that is not part of a number: currency symbols
// ($, NT$, HK$, ¥, €, £), thousands separators and whitespace. Sign,
// decimal point and exponent characters are preserved.
func clean(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
			b.WriteRune(r)
		}
	}
	return b.String()
}
