// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

// Package activation provides stateless elementwise activation kernels.
//
// The kernels carry no lifecycle: they are plain functions over scalars
// and slices, safe for concurrent use.
package activation

import "math"

// Elliot computes the Elliot activation f(x) = x / (1 + |x|), a cheap
// sigmoid-shaped squashing function (Elliott, 1993).
func Elliot(x float64) float64 {
	return x / (1 + math.Abs(x))
}

// ElliotDeriv computes the first derivative of the Elliot activation,
// f'(x) = 1 / (1 + |x|)^2.
func ElliotDeriv(x float64) float64 {
	d := 1 + math.Abs(x)
	return 1 / (d * d)
}

// ElliotSlice applies the Elliot activation elementwise. dst and x must
// have equal length; dst may alias x.
func ElliotSlice(dst, x []float64) {
	if len(dst) != len(x) {
		panic("activation: dst and x length mismatch")
	}
	for i, v := range x {
		dst[i] = Elliot(v)
	}
}

// ElliotDerivSlice applies the Elliot derivative elementwise. dst and x
// must have equal length; dst may alias x.
func ElliotDerivSlice(dst, x []float64) {
	if len(dst) != len(x) {
		panic("activation: dst and x length mismatch")
	}
	for i, v := range x {
		dst[i] = ElliotDeriv(v)
	}
}
