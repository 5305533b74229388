// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

// Package scale implements feature scaling for numeric datasets.
//
// The package provides six scaling strategies behind a common Scaler
// interface, plus a ScalingModel selector that owns exactly one fitted
// strategy at a time and dispatches Fit, Transform and InverseTransform
// to it.
//
// # Strategies
//
//   - Linear: MinMaxScaler, MaxAbsScaler, MeanNormalization, StandardScaler
//   - Whitening: PCAWhitening, ZCAWhitening
//
// # Data Layout
//
// All strategies operate on gonum matrices with observations as rows and
// features as columns. Parameters are fitted per feature (per column),
// except for the whitening strategies which fit a joint decorrelating
// transform over all features.
//
// # Thread Safety
//
// Scalers and ScalingModel perform no internal locking. A single logical
// owner must serialize Fit, CopyFrom, MoveFrom and Reset; concurrent
// Transform calls are safe only while the model is not being re-fitted.
package scale
