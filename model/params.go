package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyParams   = errors.New("parameter set is empty")
	ErrShapeMismatch = errors.New("parameter shape mismatch")
)

// ParameterSet is the full trainable state of a model: an ordered sequence
// of float64 arrays, one per trainable layer. Arity and per-index lengths
// are fixed for the lifetime of a run; every set produced by a node or by
// aggregation must match the shape of the initial global set.
type ParameterSet [][]float64

// Clone returns an independent deep copy. Handing a node "a copy of the
// global parameters" is just passing a Clone.
func (p ParameterSet) Clone() ParameterSet {
	if p == nil {
		return nil
	}
	out := make(ParameterSet, len(p))
	for i, layer := range p {
		out[i] = make([]float64, len(layer))
		copy(out[i], layer)
	}

	return out
}

// Shape returns the per-index array lengths.
func (p ParameterSet) Shape() []int {
	shape := make([]int, len(p))
	for i, layer := range p {
		shape[i] = len(layer)
	}

	return shape
}

// SameShape reports whether o has identical arity and per-index lengths.
func (p ParameterSet) SameShape(o ParameterSet) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if len(p[i]) != len(o[i]) {
			return false
		}
	}

	return true
}

// Validate rejects empty sets and sets whose shape deviates from ref.
func (p ParameterSet) Validate(ref ParameterSet) error {
	if len(p) == 0 {
		return ErrEmptyParams
	}
	if !p.SameShape(ref) {
		return fmt.Errorf("%w: got %v, want %v", ErrShapeMismatch, p.Shape(), ref.Shape())
	}

	return nil
}
