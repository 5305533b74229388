// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"encoding/gob"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ScalerType identifies one of the supported scaling strategies.
type ScalerType int

const (
	// ScalerNone selects no strategy. A model with this tag cannot fit or
	// transform data.
	ScalerNone ScalerType = iota
	// ScalerStandard selects z-score scaling (center by mean, scale by
	// standard deviation).
	ScalerStandard
	// ScalerMinMax selects linear rescaling to a fixed [min, max] range.
	ScalerMinMax
	// ScalerMean selects mean normalization (center by mean, scale by range).
	ScalerMean
	// ScalerMaxAbs selects division by the per-feature maximum absolute value.
	ScalerMaxAbs
	// ScalerPCA selects PCA whitening regularized by epsilon.
	ScalerPCA
	// ScalerZCA selects ZCA whitening regularized by epsilon.
	ScalerZCA
)

// String returns the canonical name for the scaler type.
func (t ScalerType) String() string {
	switch t {
	case ScalerNone:
		return "none"
	case ScalerStandard:
		return "standard"
	case ScalerMinMax:
		return "min_max"
	case ScalerMean:
		return "mean_normalization"
	case ScalerMaxAbs:
		return "max_abs"
	case ScalerPCA:
		return "pca_whitening"
	case ScalerZCA:
		return "zca_whitening"
	default:
		return "unknown"
	}
}

// Valid reports whether the tag names a known strategy or ScalerNone.
func (t ScalerType) Valid() bool {
	return t >= ScalerNone && t <= ScalerZCA
}

// ParseScalerType converts a strategy name to its ScalerType tag.
// Accepts the canonical names from String plus common aliases.
func ParseScalerType(name string) (ScalerType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "":
		return ScalerNone, nil
	case "standard", "standard_scaler", "zscore", "z_score":
		return ScalerStandard, nil
	case "min_max", "minmax", "min_max_scaler":
		return ScalerMinMax, nil
	case "mean_normalization", "mean":
		return ScalerMean, nil
	case "max_abs", "maxabs", "max_abs_scaler":
		return ScalerMaxAbs, nil
	case "pca_whitening", "pca":
		return ScalerPCA, nil
	case "zca_whitening", "zca":
		return ScalerZCA, nil
	default:
		return ScalerNone, fmt.Errorf("%w: %q", ErrUnknownScalerType, name)
	}
}

// Scaler is the contract shared by all scaling strategies.
//
// Fit learns the strategy's parameters from a training matrix. Transform
// applies the fitted forward transform and InverseTransform recovers
// original-scale values. Both return a freshly allocated result and leave
// the input untouched. Clone returns an independent deep copy.
type Scaler interface {
	Fit(x mat.Matrix) error
	Transform(x mat.Matrix) (*mat.Dense, error)
	InverseTransform(x mat.Matrix) (*mat.Dense, error)
	Clone() Scaler
}

// Ensure all strategies implement the interface.
var (
	_ Scaler = (*StandardScaler)(nil)
	_ Scaler = (*MinMaxScaler)(nil)
	_ Scaler = (*MeanNormalization)(nil)
	_ Scaler = (*MaxAbsScaler)(nil)
	_ Scaler = (*PCAWhitening)(nil)
	_ Scaler = (*ZCAWhitening)(nil)
)

//nolint:gochecknoinits // gob needs the concrete strategy types registered
// before a ScalingModel interface payload can round-trip.
func init() {
	gob.Register(&StandardScaler{})
	gob.Register(&MinMaxScaler{})
	gob.Register(&MeanNormalization{})
	gob.Register(&MaxAbsScaler{})
	gob.Register(&PCAWhitening{})
	gob.Register(&ZCAWhitening{})
}

// scalerKind maps a concrete strategy back to its tag. A nil scaler maps
// to ScalerNone.
func scalerKind(s Scaler) ScalerType {
	switch s.(type) {
	case nil:
		return ScalerNone
	case *StandardScaler:
		return ScalerStandard
	case *MinMaxScaler:
		return ScalerMinMax
	case *MeanNormalization:
		return ScalerMean
	case *MaxAbsScaler:
		return ScalerMaxAbs
	case *PCAWhitening:
		return ScalerPCA
	case *ZCAWhitening:
		return ScalerZCA
	default:
		return ScalerNone
	}
}

// checkTrainingData validates a training matrix and returns its dimensions.
func checkTrainingData(x mat.Matrix) (rows, cols int, err error) {
	rows, cols = x.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, ErrEmptyData
	}
	return rows, cols, nil
}

// checkTransformInput validates an input matrix against the fitted feature
// count and returns its dimensions.
func checkTransformInput(x mat.Matrix, fitted bool, features int) (rows, cols int, err error) {
	if !fitted {
		return 0, 0, ErrNotFitted
	}
	rows, cols = x.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, ErrEmptyData
	}
	if cols != features {
		return 0, 0, fmt.Errorf("%w: input has %d features, fitted with %d", ErrDimensionMismatch, cols, features)
	}
	return rows, cols, nil
}

// cloneFloats returns a copy of a float slice, preserving nil.
func cloneFloats(src []float64) []float64 {
	if src == nil {
		return nil
	}
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
