// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaxAbsScaler divides each feature by its maximum absolute value observed
// during Fit, mapping values into [-1, 1] without shifting the data.
//
// Fields are exported for gob encoding.
type MaxAbsScaler struct {
	// MaxAbs holds the per-feature maximum absolute value, or 1 for
	// all-zero features.
	MaxAbs []float64

	Fitted bool
}

// NewMaxAbsScaler creates a max-abs scaler.
func NewMaxAbsScaler() *MaxAbsScaler {
	return &MaxAbsScaler{}
}

// Fit computes the per-feature maximum absolute value.
func (s *MaxAbsScaler) Fit(x mat.Matrix) error {
	rows, cols, err := checkTrainingData(x)
	if err != nil {
		return err
	}

	s.MaxAbs = make([]float64, cols)
	for j := 0; j < cols; j++ {
		maxAbs := 0.0
		for i := 0; i < rows; i++ {
			if v := math.Abs(x.At(i, j)); v > maxAbs {
				maxAbs = v
			}
		}
		if maxAbs == 0 {
			maxAbs = 1
		}
		s.MaxAbs[j] = maxAbs
	}

	s.Fitted = true
	return nil
}

// Transform divides each feature by its fitted maximum absolute value.
func (s *MaxAbsScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	rows, cols, err := checkTransformInput(x, s.Fitted, len(s.MaxAbs))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, x.At(i, j)/s.MaxAbs[j])
		}
	}
	return out, nil
}

// InverseTransform recovers original-scale values.
func (s *MaxAbsScaler) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	rows, cols, err := checkTransformInput(x, s.Fitted, len(s.MaxAbs))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, x.At(i, j)*s.MaxAbs[j])
		}
	}
	return out, nil
}

// Clone returns an independent deep copy of the scaler.
func (s *MaxAbsScaler) Clone() Scaler {
	return &MaxAbsScaler{
		MaxAbs: cloneFloats(s.MaxAbs),
		Fitted: s.Fitted,
	}
}
