// Package features turns validated requests into the fixed-order numeric
// vectors the models were trained on. Inference and offline tooling share it.
package features

import (
	"fmt"

	dErrors "govintel/pkg/domain-errors"
)

// Vocabulary is the slice of a loaded artifact set an encoder needs.
type Vocabulary interface {
	CategoryCode(field, value string) (int, error)
	Columns() []string
}

// Vector is an ordered feature mapping. Its columns always equal the
// training-time list it was built from.
type Vector struct {
	columns []string
	values  []float64
}

func (v Vector) Len() int { return len(v.columns) }

func (v Vector) Columns() []string {
	return append([]string(nil), v.columns...)
}

func (v Vector) Values() []float64 {
	return append([]float64(nil), v.values...)
}

func (v Vector) Get(name string) (float64, bool) {
	for i, c := range v.columns {
		if c == name {
			return v.values[i], true
		}
	}
	return 0, false
}

func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.columns))
	for i, c := range v.columns {
		out[c] = v.values[i]
	}
	return out
}

// assemble orders computed values by columns. Computed values the model does
// not use are dropped; a listed column that was not computed means encoder and
// artifacts disagree.
func assemble(columns []string, computed map[string]float64) (Vector, error) {
	v := Vector{columns: columns, values: make([]float64, len(columns))}
	for i, c := range columns {
		x, ok := computed[c]
		if !ok {
			return Vector{}, dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("encoder cannot produce feature column %q", c))
		}
		v.values[i] = x
	}
	return v, nil
}
