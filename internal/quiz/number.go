package quiz

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$|^\d+/\d+$`)

// IsNumber reports whether s is an integer, a decimal (dot or comma
// separator) or a simple fraction a/b.
func IsNumber(s string) bool {
	return numberRe.MatchString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

// ParseNumber parses the forms accepted by IsNumber. Fractions with a zero
// denominator are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if !numberRe.MatchString(s) {
		return 0, false
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatNumber rounds v to two decimals and drops a zero fraction,
// so 8.0 becomes "8" and 0.749 becomes "0.75".
func FormatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // normalizes -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
