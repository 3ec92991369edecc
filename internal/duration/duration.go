package duration

import (
	"math"
	"strconv"
	"strings"
)

// ParseHours converts a free-text duration into decimal hours.
//
// Accepted forms are a plain decimal number of hours ("2.5" or "2,5") and
// colon-separated tokens "hh:mm:ss", "mm:ss" or "ss". An empty token and any
// malformed or negative token both report ok == false; callers that need to
// tell "not provided" from "invalid" check the trimmed token themselves.
func ParseHours(token string) (float64, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, false
	}

	// Plain numbers win over the colon path
	if v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil && isFinite(v) {
		if v < 0 {
			return 0, false
		}
		return v, true
	}

	parts := strings.Split(s, ":")
	values := make([]float64, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || !isFinite(v) || v < 0 {
			return 0, false
		}
		values[i] = v
	}

	switch len(values) {
	case 3:
		return values[0] + values[1]/60 + values[2]/3600, true
	case 2:
		return values[0]/60 + values[1]/3600, true
	case 1:
		return values[0] / 3600, true
	default:
		return 0, false
	}
}

// ParseCount parses an event count field. The value is returned as a float so
// that callers can reject fractional counts such as "2.5".
func ParseCount(token string) (float64, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// IsInteger reports whether x is a finite whole number.
func IsInteger(x float64) bool {
	return isFinite(x) && x == math.Trunc(x)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
