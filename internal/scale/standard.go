// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler applies z-score scaling: each feature is centered by its
// mean and divided by its sample standard deviation.
//
// Fields are exported for gob encoding.
type StandardScaler struct {
	// Mean holds the per-feature mean observed during Fit.
	Mean []float64

	// StdDev holds the per-feature sample standard deviation, or 1 for
	// constant features (and for single-observation fits, where the
	// sample deviation is undefined).
	StdDev []float64

	Fitted bool
}

// NewStandardScaler creates a standard (z-score) scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes the per-feature mean and standard deviation.
func (s *StandardScaler) Fit(x mat.Matrix) error {
	_, cols, err := checkTrainingData(x)
	if err != nil {
		return err
	}

	s.Mean = make([]float64, cols)
	s.StdDev = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, x)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || len(col) < 2 {
			std = 1
		}
		s.Mean[j] = mean
		s.StdDev[j] = std
	}

	s.Fitted = true
	return nil
}

// Transform centers and scales each feature to unit variance.
func (s *StandardScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	rows, cols, err := checkTransformInput(x, s.Fitted, len(s.Mean))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.Mean[j])/s.StdDev[j])
		}
	}
	return out, nil
}

// InverseTransform recovers original-scale values.
func (s *StandardScaler) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	rows, cols, err := checkTransformInput(x, s.Fitted, len(s.Mean))
	if err != nil {
		return nil, err
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, x.At(i, j)*s.StdDev[j]+s.Mean[j])
		}
	}
	return out, nil
}

// Clone returns an independent deep copy of the scaler.
func (s *StandardScaler) Clone() Scaler {
	return &StandardScaler{
		Mean:   cloneFloats(s.Mean),
		StdDev: cloneFloats(s.StdDev),
		Fitted: s.Fitted,
	}
}
