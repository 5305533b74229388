// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MinMaxScaler rescales each feature linearly into [RangeMin, RangeMax]
// based on the minimum and maximum observed during Fit.
//
// Fields are exported for gob encoding.
type MinMaxScaler struct {
	// RangeMin and RangeMax bound the output range.
	RangeMin float64
	RangeMax float64

	// DataMin and DataMax hold the per-feature minimum and maximum
	// observed during Fit.
	DataMin []float64
	DataMax []float64

	// Scale holds the per-feature multiplier
	// (RangeMax-RangeMin)/(DataMax-DataMin), or 1 for constant features.
	Scale []float64

	Fitted bool
}

// NewMinMaxScaler creates a min-max scaler targeting [rangeMin, rangeMax].
func NewMinMaxScaler(rangeMin, rangeMax float64) *MinMaxScaler {
	return &MinMaxScaler{
		RangeMin: rangeMin,
		RangeMax: rangeMax,
	}
}

// Fit computes per-feature minima and maxima from the training matrix.
func (s *MinMaxScaler) Fit(x mat.Matrix) error {
	_, cols, err := checkTrainingData(x)
	if err != nil {
		return err
	}

	s.DataMin = make([]float64, cols)
	s.DataMax = make([]float64, cols)
	s.Scale = make([]float64, cols)

	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, x)
		s.DataMin[j] = floats.Min(col)
		s.DataMax[j] = floats.Max(col)

		spread := s.DataMax[j] - s.DataMin[j]
		if spread == 0 {
			// Constant feature: map every value to RangeMin.
			s.Scale[j] = 1
		} else {
			s.Scale[j] = (s.RangeMax - s.RangeMin) / spread
		}
	}

	s.Fitted = true
	return nil
}

// Transform maps each feature into the target range.
func (s *MinMaxScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	rows, cols, err := checkTransformInput(x, s.Fitted, len(s.DataMin))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.DataMin[j])*s.Scale[j]+s.RangeMin)
		}
	}
	return out, nil
}

// InverseTransform recovers original-scale values.
func (s *MinMaxScaler) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	rows, cols, err := checkTransformInput(x, s.Fitted, len(s.DataMin))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.RangeMin)/s.Scale[j]+s.DataMin[j])
		}
	}
	return out, nil
}

// Clone returns an independent deep copy of the scaler.
func (s *MinMaxScaler) Clone() Scaler {
	return &MinMaxScaler{
		RangeMin: s.RangeMin,
		RangeMax: s.RangeMax,
		DataMin:  cloneFloats(s.DataMin),
		DataMax:  cloneFloats(s.DataMax),
		Scale:    cloneFloats(s.Scale),
		Fitted:   s.Fitted,
	}
}
