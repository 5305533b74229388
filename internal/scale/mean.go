// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MeanNormalization centers each feature by its mean and rescales by the
// observed range (max - min).
//
// Fields are exported for gob encoding.
type MeanNormalization struct {
	// Mean holds the per-feature mean observed during Fit.
	Mean []float64

	// Spread holds the per-feature range (max - min), or 1 for constant
	// features.
	Spread []float64

	Fitted bool
}

// NewMeanNormalization creates a mean-normalization scaler.
func NewMeanNormalization() *MeanNormalization {
	return &MeanNormalization{}
}

// Fit computes the per-feature mean and range.
func (s *MeanNormalization) Fit(x mat.Matrix) error {
	_, cols, err := checkTrainingData(x)
	if err != nil {
		return err
	}

	s.Mean = make([]float64, cols)
	s.Spread = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, x)
		s.Mean[j] = stat.Mean(col, nil)

		spread := floats.Max(col) - floats.Min(col)
		if spread == 0 {
			spread = 1
		}
		s.Spread[j] = spread
	}

	s.Fitted = true
	return nil
}

// Transform centers each feature and divides by its range.
func (s *MeanNormalization) Transform(x mat.Matrix) (*mat.Dense, error) {
	rows, cols, err := checkTransformInput(x, s.Fitted, len(s.Mean))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.Mean[j])/s.Spread[j])
		}
	}
	return out, nil
}

// InverseTransform recovers original-scale values.
func (s *MeanNormalization) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	rows, cols, err := checkTransformInput(x, s.Fitted, len(s.Mean))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, x.At(i, j)*s.Spread[j]+s.Mean[j])
		}
	}
	return out, nil
}

// Clone returns an independent deep copy of the scaler.
func (s *MeanNormalization) Clone() Scaler {
	return &MeanNormalization{
		Mean:   cloneFloats(s.Mean),
		Spread: cloneFloats(s.Spread),
		Fitted: s.Fitted,
	}
}
