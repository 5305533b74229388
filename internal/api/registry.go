// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mfaltys/scalekit/internal/metrics"
	"github.com/mfaltys/scalekit/internal/scale"
)

// ErrModelNotFound indicates a registry lookup for an unknown model ID.
var ErrModelNotFound = errors.New("model not found")

// ManagedModel wraps a scaling model with registry bookkeeping. The
// embedded mutex serializes all model operations, since a ScalingModel
// performs no internal locking.
type ManagedModel struct {
	mu sync.Mutex

	ID        uuid.UUID
	Model     *scale.ScalingModel
	CreatedAt time.Time

	// FittedAt is zero until the first successful fit.
	FittedAt time.Time

	// Rows and Cols record the shape of the last training matrix.
	Rows int
	Cols int
}

// WithLock runs fn while holding the model's lock.
func (m *ManagedModel) WithLock(fn func(*ManagedModel) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

// Registry holds the in-memory collection of managed models.
type Registry struct {
	mu     sync.RWMutex
	models map[uuid.UUID]*ManagedModel
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{
		models: make(map[uuid.UUID]*ManagedModel),
	}
}

// Create registers a new managed model and returns it.
func (r *Registry) Create(model *scale.ScalingModel) *ManagedModel {
	m := &ManagedModel{
		ID:        uuid.New(),
		Model:     model,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.models[m.ID] = m
	r.mu.Unlock()

	metrics.ModelsActive.Set(float64(r.Len()))
	return m
}

// Get returns the managed model with the given ID.
func (r *Registry) Get(id uuid.UUID) (*ManagedModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[id]
	if !ok {
		return nil, ErrModelNotFound
	}
	return m, nil
}

// Delete removes a managed model from the registry.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	_, ok := r.models[id]
	if ok {
		delete(r.models, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrModelNotFound
	}
	metrics.ModelsActive.Set(float64(r.Len()))
	return nil
}

// List returns all managed models.
func (r *Registry) List() []*ManagedModel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ManagedModel, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	return out
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}
