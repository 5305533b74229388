// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Default configuration values a moved-from or reset model falls back to.
const (
	DefaultMinValue = 0
	DefaultMaxValue = 1
	DefaultEpsilon  = 0.00005
)

// ScalingModel selects one of the six scaling strategies by tag, owns at
// most one fitted strategy instance at a time, and dispatches Fit,
// Transform and InverseTransform to it.
//
// Changing the tag does not release the owned strategy immediately: the
// model keeps serving nothing (Transform returns ErrNotFitted) until the
// next successful Fit installs a strategy of the new kind. Fit replaces
// the owned strategy atomically from the caller's perspective; on a fit
// failure the previously owned strategy and its parameters are retained
// unchanged.
type ScalingModel struct {
	scalerType ScalerType
	fittedType ScalerType
	minValue   int
	maxValue   int
	epsilon    float64
	scaler     Scaler
}

// NewScalingModel creates an unfitted model with tag ScalerNone.
// minValue and maxValue parameterize min-max scaling; epsilon regularizes
// the whitening strategies.
func NewScalingModel(minValue, maxValue int, epsilon float64) *ScalingModel {
	return &ScalingModel{
		scalerType: ScalerNone,
		fittedType: ScalerNone,
		minValue:   minValue,
		maxValue:   maxValue,
		epsilon:    epsilon,
	}
}

// ScalerType returns the currently selected strategy tag.
func (m *ScalingModel) ScalerType() ScalerType { return m.scalerType }

// SetScalerType selects the strategy the next Fit will construct. Any
// previously fitted strategy of a different kind stays owned but unusable
// until then.
func (m *ScalingModel) SetScalerType(t ScalerType) { m.scalerType = t }

// MinValue returns the lower bound used by min-max scaling.
func (m *ScalingModel) MinValue() int { return m.minValue }

// MaxValue returns the upper bound used by min-max scaling.
func (m *ScalingModel) MaxValue() int { return m.maxValue }

// Epsilon returns the whitening regularization constant.
func (m *ScalingModel) Epsilon() float64 { return m.epsilon }

// IsFitted reports whether the model owns a strategy matching the current
// tag.
func (m *ScalingModel) IsFitted() bool {
	return m.scaler != nil && m.fittedType == m.scalerType
}

// newScaler constructs an unfitted strategy for the current tag.
func (m *ScalingModel) newScaler() (Scaler, error) {
	switch m.scalerType {
	case ScalerStandard:
		return NewStandardScaler(), nil
	case ScalerMinMax:
		return NewMinMaxScaler(float64(m.minValue), float64(m.maxValue)), nil
	case ScalerMean:
		return NewMeanNormalization(), nil
	case ScalerMaxAbs:
		return NewMaxAbsScaler(), nil
	case ScalerPCA:
		return NewPCAWhitening(m.epsilon), nil
	case ScalerZCA:
		return NewZCAWhitening(m.epsilon), nil
	case ScalerNone:
		return nil, ErrNoScalerSelected
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownScalerType, int(m.scalerType))
	}
}

// Fit constructs a fresh strategy for the current tag and fits it on the
// training matrix. On success the new strategy replaces the previously
// owned one; on failure the model keeps its prior state.
func (m *ScalingModel) Fit(x mat.Matrix) error {
	s, err := m.newScaler()
	if err != nil {
		return err
	}
	if err := s.Fit(x); err != nil {
		return err
	}
	m.scaler = s
	m.fittedType = m.scalerType
	return nil
}

// Transform applies the fitted forward transform. Returns ErrNotFitted if
// no strategy matching the current tag is owned.
func (m *ScalingModel) Transform(x mat.Matrix) (*mat.Dense, error) {
	if !m.IsFitted() {
		return nil, ErrNotFitted
	}
	return m.scaler.Transform(x)
}

// InverseTransform recovers original-scale values. Returns ErrNotFitted if
// no strategy matching the current tag is owned.
func (m *ScalingModel) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	if !m.IsFitted() {
		return nil, ErrNotFitted
	}
	return m.scaler.InverseTransform(x)
}

// CopyFrom makes m an independent deep copy of other. Copying a model into
// itself is a no-op.
func (m *ScalingModel) CopyFrom(other *ScalingModel) {
	if m == other {
		return
	}
	m.scalerType = other.scalerType
	m.fittedType = other.fittedType
	m.minValue = other.minValue
	m.maxValue = other.maxValue
	m.epsilon = other.epsilon
	if other.scaler != nil {
		m.scaler = other.scaler.Clone()
	} else {
		m.scaler = nil
	}
}

// MoveFrom transfers ownership of other's fitted strategy to m and resets
// other to the default empty state. Moving a model into itself is a no-op.
func (m *ScalingModel) MoveFrom(other *ScalingModel) {
	if m == other {
		return
	}
	m.scalerType = other.scalerType
	m.fittedType = other.fittedType
	m.minValue = other.minValue
	m.maxValue = other.maxValue
	m.epsilon = other.epsilon
	m.scaler = other.scaler

	other.Reset()
}

// Clone returns an independent deep copy of the model.
func (m *ScalingModel) Clone() *ScalingModel {
	c := &ScalingModel{}
	c.CopyFrom(m)
	return c
}

// Reset returns the model to the default empty state: tag ScalerNone,
// default bounds and epsilon, nothing owned. Safe to call repeatedly.
func (m *ScalingModel) Reset() {
	m.scalerType = ScalerNone
	m.fittedType = ScalerNone
	m.minValue = DefaultMinValue
	m.maxValue = DefaultMaxValue
	m.epsilon = DefaultEpsilon
	m.scaler = nil
}

// scalingModelState is the gob wire form of a ScalingModel. The Scaler
// interface field carries whichever strategy is owned; the concrete types
// are gob-registered in this package's init.
type scalingModelState struct {
	ScalerType ScalerType
	FittedType ScalerType
	MinValue   int
	MaxValue   int
	Epsilon    float64
	Scaler     Scaler
}

// GobEncode serializes the model's configuration and the owned strategy.
func (m *ScalingModel) GobEncode() ([]byte, error) {
	state := scalingModelState{
		ScalerType: m.scalerType,
		FittedType: m.fittedType,
		MinValue:   m.minValue,
		MaxValue:   m.maxValue,
		Epsilon:    m.epsilon,
		Scaler:     m.scaler,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("encode scaling model: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode restores a model, validating that the restored tag and strategy
// payload agree so a decoded model never owns a strategy of the wrong kind.
func (m *ScalingModel) GobDecode(data []byte) error {
	var state scalingModelState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("decode scaling model: %w", err)
	}

	if !state.ScalerType.Valid() || !state.FittedType.Valid() {
		return fmt.Errorf("%w: tag out of range", ErrCorruptModelState)
	}
	if kind := scalerKind(state.Scaler); kind != state.FittedType {
		return fmt.Errorf("%w: fitted tag %s does not match restored strategy %s",
			ErrCorruptModelState, state.FittedType, kind)
	}

	m.scalerType = state.ScalerType
	m.fittedType = state.FittedType
	m.minValue = state.MinValue
	m.maxValue = state.MaxValue
	m.epsilon = state.Epsilon
	m.scaler = state.Scaler
	return nil
}
