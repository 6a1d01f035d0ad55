package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyDataset    = errors.New("model: empty training set")
	ErrUnderdetermined = errors.New("model: fewer training records than parameters")
	ErrSingular        = errors.New("model: design matrix is singular")
	ErrModelNotReady   = errors.New("model: predictor has not been trained")
	ErrAlreadyTrained  = errors.New("model: predictor is already trained")
)

// InvalidInputError reports a feature vector that cannot be scored.
// Index is -1 when the inputs were finite but the score was not.
type InvalidInputError struct {
	Index int
	Value float64
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("model: non-finite score %v", e.Value)
	}
	return fmt.Sprintf("model: feature %d is not finite or out of range (%v)", e.Index, e.Value)
}

func checkFinite(xs []float64) error {
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &InvalidInputError{Index: i, Value: x}
		}
	}
	return nil
}
