// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// whitenTrainingMatrix returns correlated two-feature data so the whitening
// transforms have real work to do.
func whitenTrainingMatrix() *mat.Dense {
	return mat.NewDense(6, 2, []float64{
		1.0, 2.1,
		2.0, 3.9,
		3.0, 6.2,
		4.0, 7.8,
		5.0, 10.1,
		6.0, 12.2,
	})
}

func TestPCAWhitening_RoundTrip(t *testing.T) {
	data := whitenTrainingMatrix()
	_, recovered := roundTrip(t, NewPCAWhitening(1e-8), data)
	// The inverse applies the exact reciprocal factors, so the round trip
	// is limited by floating point only.
	if !matApproxEqual(recovered, data, 1e-8) {
		t.Errorf("round trip mismatch: got %v, want %v", mat.Formatted(recovered), mat.Formatted(data))
	}
}

func TestZCAWhitening_RoundTrip(t *testing.T) {
	data := whitenTrainingMatrix()
	_, recovered := roundTrip(t, NewZCAWhitening(1e-8), data)
	if !matApproxEqual(recovered, data, 1e-8) {
		t.Errorf("round trip mismatch: got %v, want %v", mat.Formatted(recovered), mat.Formatted(data))
	}
}

func TestPCAWhitening_DecorrelatesComponents(t *testing.T) {
	data := whitenTrainingMatrix()
	s := NewPCAWhitening(1e-10)
	transformed, _ := roundTrip(t, s, data)

	// Whitened components must be uncorrelated with (near) unit variance.
	a := mat.Col(nil, 0, transformed)
	b := mat.Col(nil, 1, transformed)

	if cov := stat.Covariance(a, b, nil); math.Abs(cov) > 1e-6 {
		t.Errorf("component covariance = %g, want ~0", cov)
	}
	for i, col := range [][]float64{a, b} {
		if v := stat.Variance(col, nil); math.Abs(v-1) > 1e-3 {
			t.Errorf("component %d variance = %g, want ~1", i, v)
		}
	}
}

func TestZCAWhitening_StaysNearOriginalBasis(t *testing.T) {
	data := whitenTrainingMatrix()
	s := NewZCAWhitening(1e-10)
	transformed, _ := roundTrip(t, s, data)

	// ZCA output is the whitened data rotated back into feature space;
	// the covariance of the output must be (near) identity.
	a := mat.Col(nil, 0, transformed)
	b := mat.Col(nil, 1, transformed)

	if cov := stat.Covariance(a, b, nil); math.Abs(cov) > 1e-6 {
		t.Errorf("feature covariance = %g, want ~0", cov)
	}
	for i, col := range [][]float64{a, b} {
		if v := stat.Variance(col, nil); math.Abs(v-1) > 1e-3 {
			t.Errorf("feature %d variance = %g, want ~1", i, v)
		}
	}
}

func TestWhitening_EpsilonBoundsDegenerateComponents(t *testing.T) {
	// Second feature is an exact multiple of the first, so one eigenvalue
	// of the covariance is zero. Epsilon must keep the transform finite.
	data := mat.NewDense(4, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
		4, 8,
	})

	s := NewPCAWhitening(1e-5)
	if err := s.Fit(data); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	transformed, err := s.Transform(data)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	rows, cols := transformed.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := transformed.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("transformed[%d,%d] = %g, want finite", i, j, v)
			}
		}
	}
}

func TestWhitening_InsufficientObservations(t *testing.T) {
	single := mat.NewDense(1, 3, []float64{2, 4, 6})

	for _, tt := range []struct {
		name string
		s    Scaler
	}{
		{"pca_whitening", NewPCAWhitening(1e-5)},
		{"zca_whitening", NewZCAWhitening(1e-5)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Fit(single); !errors.Is(err, ErrInsufficientData) {
				t.Errorf("Fit() error = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestWhitening_Clone(t *testing.T) {
	data := whitenTrainingMatrix()

	s := NewZCAWhitening(1e-6)
	if err := s.Fit(data); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	c, ok := s.Clone().(*ZCAWhitening)
	if !ok {
		t.Fatal("Clone() did not return a *ZCAWhitening")
	}

	c.Mean[0] += 100
	c.Eigvecs.Set(0, 0, 42)
	if s.Mean[0] == c.Mean[0] {
		t.Error("Clone() shares Mean with the original")
	}
	if s.Eigvecs.At(0, 0) == 42 {
		t.Error("Clone() shares Eigvecs with the original")
	}
}
