// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

// Package scale provides feature scaling strategies and the scaling model.
//
// errors.go - Common scaling error definitions
//
// This file contains sentinel errors for common scaling error conditions.
package scale

import "errors"

// Common scaling errors
var (
	// ErrNotFitted indicates Transform or InverseTransform was called before
	// a successful Fit for the currently selected scaler type.
	ErrNotFitted = errors.New("scaler is not fitted")

	// ErrNoScalerSelected indicates Fit was called while no scaler type is
	// selected (ScalerNone).
	ErrNoScalerSelected = errors.New("no scaler type selected")

	// ErrEmptyData indicates an input matrix has zero rows or zero columns.
	ErrEmptyData = errors.New("input matrix is empty")

	// ErrDimensionMismatch indicates an input matrix has a different number
	// of features than the data the scaler was fitted on.
	ErrDimensionMismatch = errors.New("feature dimension mismatch")

	// ErrInsufficientData indicates a strategy needs more observations than
	// the training matrix provides.
	ErrInsufficientData = errors.New("insufficient observations")

	// ErrUnknownScalerType indicates a scaler type name or tag that does not
	// correspond to any known strategy.
	ErrUnknownScalerType = errors.New("unknown scaler type")

	// ErrCorruptModelState indicates a serialized scaling model whose tag and
	// strategy payload disagree.
	ErrCorruptModelState = errors.New("corrupt scaling model state")
)
