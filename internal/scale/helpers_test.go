// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// matApproxEqual reports whether two matrices have the same shape and all
// entries within tol of each other.
func matApproxEqual(a, b mat.Matrix, tol float64) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}

// roundTrip fits a scaler, transforms the training data and inverts the
// result, failing the test on any error.
func roundTrip(t *testing.T, s Scaler, x *mat.Dense) (*mat.Dense, *mat.Dense) {
	t.Helper()

	if err := s.Fit(x); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	transformed, err := s.Transform(x)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	recovered, err := s.InverseTransform(transformed)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}
	return transformed, recovered
}

// trainingMatrix is a small 4x3 dataset with mixed signs and scales shared
// across scaler tests.
func trainingMatrix() *mat.Dense {
	return mat.NewDense(4, 3, []float64{
		1.0, -2.0, 100.0,
		2.0, 0.5, 250.0,
		3.0, 4.0, 175.0,
		4.0, -1.5, 300.0,
	})
}
