// Package validation collects field problems for request payloads and reports
// them as a single CodeValidation error.
//
// Usage:
//
//	var v validation.Problems
//	v.Required("district", r.District)
//	v.Between("month", r.Month, 1, 12)
//	return v.Err()
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	dErrors "govintel/pkg/domain-errors"
)

// Problems accumulates human-readable field problems in check order.
type Problems struct {
	list []string
}

func (v *Problems) add(format string, args ...any) {
	v.list = append(v.list, fmt.Sprintf(format, args...))
}

func (v *Problems) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add("%s is required", field)
	}
}

// Missing records every field a decoder reported as absent.
func (v *Problems) Missing(fields ...string) {
	for _, field := range fields {
		v.add("%s is required", field)
	}
}

func (v *Problems) Between(field string, value, lo, hi int) {
	if value < lo || value > hi {
		v.add("%s must be between %d and %d", field, lo, hi)
	}
}

// Flag accepts only 0 and 1.
func (v *Problems) Flag(field string, value int) {
	if value != 0 && value != 1 {
		v.add("%s must be 0 or 1", field)
	}
}

func (v *Problems) NonNegative(field string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		v.add("%s must be a non-negative number", field)
	}
}

func (v *Problems) NonNegativeInt(field string, value int) {
	if value < 0 {
		v.add("%s must not be negative", field)
	}
}

func (v *Problems) UnitInterval(field string, value float64) {
	if math.IsNaN(value) || value < 0 || value > 1 {
		v.add("%s must be between 0 and 1", field)
	}
}

func (v *Problems) OneOf(field, value string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		v.add("%s must be one of %s", field, strings.Join(allowed, ", "))
	}
}

// Empty reports whether no problem was recorded.
func (v *Problems) Empty() bool {
	return len(v.list) == 0
}

// Err returns nil or a CodeValidation error listing every problem.
func (v *Problems) Err() error {
	if len(v.list) == 0 {
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, strings.Join(v.list, "; "))
}

// MissingKeys returns, in the order given, the keys that are absent from the
// JSON object in data or explicitly null. Numeric fields decode an omitted
// value as zero, so presence has to be checked against the raw payload.
func MissingKeys(data []byte, keys ...string) ([]string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	var missing []string
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok || bytes.Equal(raw, []byte("null")) {
			missing = append(missing, key)
		}
	}
	return missing, nil
}
