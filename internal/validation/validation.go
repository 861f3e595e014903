// Package validation collects field violations for request payloads.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Error makes a non-empty Violations usable as an error.
func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for f, m := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", f, m))
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		v[field] = "must_be_non_negative"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// Index parses a path segment as a zero-based position.
func Index(field, raw string, v Violations) int {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		v[field] = "must_be_index"
		return -1
	}
	return i
}

// Date parses an optional YYYY-MM-DD value in loc. Empty input yields the
// zero time.
func Date(field, raw string, loc *time.Location, v Violations) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	d, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		v[field] = "must_be_date"
		return time.Time{}
	}
	return d
}
