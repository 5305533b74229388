// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

// Package api provides HTTP handlers for the scaled server.
//
// The API manages scaling models in an in-memory registry keyed by UUID.
// Clients create a model with a scaler type and configuration, fit it on
// a dataset, then transform or inverse-transform further data. Fitted
// models can be saved to and loaded from the on-disk store.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/mfaltys/scalekit/internal/logging"
	"github.com/mfaltys/scalekit/internal/metrics"
	"github.com/mfaltys/scalekit/internal/scale"
	"github.com/mfaltys/scalekit/internal/storage"
)

// Defaults holds the selector parameters applied when a create request
// omits them.
type Defaults struct {
	MinValue int
	MaxValue int
	Epsilon  float64
}

// Handler serves the scaling model API.
type Handler struct {
	registry *Registry
	store    *storage.Store
	defaults Defaults
	validate *validator.Validate
}

// NewHandler creates an API handler backed by the given registry and
// model store.
func NewHandler(registry *Registry, store *storage.Store, defaults Defaults) *Handler {
	return &Handler{
		registry: registry,
		store:    store,
		defaults: defaults,
		validate: validator.New(),
	}
}

// createModelRequest is the body for POST /models.
type createModelRequest struct {
	ScalerType string   `json:"scaler_type" validate:"required"`
	MinValue   *int     `json:"min_value,omitempty"`
	MaxValue   *int     `json:"max_value,omitempty"`
	Epsilon    *float64 `json:"epsilon,omitempty" validate:"omitempty,gt=0"`
}

// dataRequest is the body for fit and transform endpoints.
type dataRequest struct {
	Data [][]float64 `json:"data" validate:"required,min=1"`
}

// saveModelRequest is the body for POST /models/{id}/save.
type saveModelRequest struct {
	Name    string `json:"name" validate:"required"`
	Version int    `json:"version,omitempty" validate:"omitempty,min=0"`
}

// loadModelRequest is the body for POST /models/load.
type loadModelRequest struct {
	Name    string `json:"name" validate:"required"`
	Version int    `json:"version,omitempty" validate:"omitempty,min=0"`
}

// modelResponse describes a managed model.
type modelResponse struct {
	ID         string    `json:"id"`
	ScalerType string    `json:"scaler_type"`
	MinValue   int       `json:"min_value"`
	MaxValue   int       `json:"max_value"`
	Epsilon    float64   `json:"epsilon"`
	Fitted     bool      `json:"fitted"`
	CreatedAt  time.Time `json:"created_at"`
	FittedAt   time.Time `json:"fitted_at"`
	Rows       int       `json:"rows,omitempty"`
	Cols       int       `json:"cols,omitempty"`
}

// dataResponse carries a transformed matrix back to the client.
type dataResponse struct {
	Data [][]float64 `json:"data"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateModel registers a new unfitted scaling model.
func (h *Handler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var req createModelRequest
	if !h.decode(w, r, &req) {
		return
	}

	typ, err := scale.ParseScalerType(req.ScalerType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if typ == scale.ScalerNone {
		writeError(w, http.StatusBadRequest, scale.ErrNoScalerSelected)
		return
	}

	minValue := h.defaults.MinValue
	if req.MinValue != nil {
		minValue = *req.MinValue
	}
	maxValue := h.defaults.MaxValue
	if req.MaxValue != nil {
		maxValue = *req.MaxValue
	}
	epsilon := h.defaults.Epsilon
	if req.Epsilon != nil {
		epsilon = *req.Epsilon
	}
	if maxValue <= minValue {
		writeError(w, http.StatusBadRequest, fmt.Errorf("max_value %d must be greater than min_value %d", maxValue, minValue))
		return
	}

	model := scale.NewScalingModel(minValue, maxValue, epsilon)
	model.SetScalerType(typ)
	m := h.registry.Create(model)

	logging.Ctx(r.Context()).Info().
		Str("model_id", m.ID.String()).
		Str("scaler_type", typ.String()).
		Msg("model created")

	writeJSON(w, http.StatusCreated, m.snapshot())
}

// ListModels returns all registered models.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models := h.registry.List()
	out := make([]modelResponse, 0, len(models))
	for _, m := range models {
		out = append(out, m.snapshot())
	}
	writeJSON(w, http.StatusOK, out)
}

// GetModel returns one model's metadata.
func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m.snapshot())
}

// DeleteModel removes a model from the registry.
func (h *Handler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid model id: %w", err))
		return
	}
	if err := h.registry.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Fit fits the model on the posted dataset.
func (h *Handler) Fit(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req dataRequest
	if !h.decode(w, r, &req) {
		return
	}
	x, err := denseFromRows(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var scalerType string
	var rows, cols int
	start := time.Now()
	err = m.WithLock(func(m *ManagedModel) error {
		scalerType = m.Model.ScalerType().String()
		if err := m.Model.Fit(x); err != nil {
			return err
		}
		m.FittedAt = time.Now()
		m.Rows, m.Cols = x.Dims()
		rows, cols = m.Rows, m.Cols
		return nil
	})
	metrics.ObserveFit(scalerType, start, err)

	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("model_id", m.ID.String()).
		Str("scaler_type", scalerType).
		Int("rows", rows).
		Int("cols", cols).
		Msg("model fitted")

	writeJSON(w, http.StatusOK, m.snapshot())
}

// Transform applies the fitted forward transform to the posted data.
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	h.transform(w, r, "forward")
}

// InverseTransform recovers original-scale values from the posted data.
func (h *Handler) InverseTransform(w http.ResponseWriter, r *http.Request) {
	h.transform(w, r, "inverse")
}

func (h *Handler) transform(w http.ResponseWriter, r *http.Request, direction string) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req dataRequest
	if !h.decode(w, r, &req) {
		return
	}
	x, err := denseFromRows(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var out *mat.Dense
	var scalerType string
	start := time.Now()
	err = m.WithLock(func(m *ManagedModel) error {
		scalerType = m.Model.ScalerType().String()
		var err error
		if direction == "inverse" {
			out, err = m.Model.InverseTransform(x)
		} else {
			out, err = m.Model.Transform(x)
		}
		return err
	})
	metrics.ObserveTransform(scalerType, direction, start, err)

	if err != nil {
		writeError(w, transformStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Data: rowsFromDense(out)})
}

// SaveModel persists a fitted model to the store.
func (h *Handler) SaveModel(w http.ResponseWriter, r *http.Request) {
	m, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req saveModelRequest
	if !h.decode(w, r, &req) {
		return
	}

	var meta *storage.ModelMetadata
	err := m.WithLock(func(m *ManagedModel) error {
		var err error
		meta, err = h.store.Save(req.Name, req.Version, m.Model, storage.ModelMetadata{
			Rows:     m.Rows,
			Cols:     m.Cols,
			FittedAt: m.FittedAt,
		})
		return err
	})
	metrics.StoreSavesTotal.WithLabelValues(statusLabel(err)).Inc()

	if err != nil {
		if errors.Is(err, storage.ErrInvalidModelName) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("model_id", m.ID.String()).
		Str("name", meta.Name).
		Int("version", meta.Version).
		Msg("model saved")

	writeJSON(w, http.StatusOK, meta)
}

// LoadModel restores a stored model into a new registry entry.
func (h *Handler) LoadModel(w http.ResponseWriter, r *http.Request) {
	var req loadModelRequest
	if !h.decode(w, r, &req) {
		return
	}

	model, meta, err := h.store.Load(req.Name, req.Version)
	metrics.StoreLoadsTotal.WithLabelValues(statusLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, storage.ErrInvalidModelName) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusNotFound, err)
		return
	}

	// The model is visible to other requests as soon as Create returns.
	m := h.registry.Create(model)
	_ = m.WithLock(func(m *ManagedModel) error {
		m.FittedAt = meta.FittedAt
		m.Rows = meta.Rows
		m.Cols = meta.Cols
		return nil
	})

	logging.Ctx(r.Context()).Info().
		Str("model_id", m.ID.String()).
		Str("name", meta.Name).
		Int("version", meta.Version).
		Msg("model loaded")

	writeJSON(w, http.StatusCreated, m.snapshot())
}

// lookup resolves the {id} URL parameter to a managed model, writing the
// error response on failure.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*ManagedModel, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid model id: %w", err))
		return nil, false
	}
	m, err := h.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return m, true
}

// decode parses and validates a JSON request body, writing the error
// response on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// transformStatus maps a transform error to an HTTP status code.
func transformStatus(err error) int {
	switch {
	case errors.Is(err, scale.ErrNotFitted):
		return http.StatusConflict
	case errors.Is(err, scale.ErrDimensionMismatch), errors.Is(err, scale.ErrEmptyData):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// statusLabel maps an error outcome to a metric status label.
func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// snapshot builds the response view of a managed model. Callers must not
// hold the model lock; snapshot takes it itself.
func (m *ManagedModel) snapshot() modelResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return modelResponse{
		ID:         m.ID.String(),
		ScalerType: m.Model.ScalerType().String(),
		MinValue:   m.Model.MinValue(),
		MaxValue:   m.Model.MaxValue(),
		Epsilon:    m.Model.Epsilon(),
		Fitted:     m.Model.IsFitted(),
		CreatedAt:  m.CreatedAt,
		FittedAt:   m.FittedAt,
		Rows:       m.Rows,
		Cols:       m.Cols,
	}
}

// denseFromRows converts a row-major JSON matrix into a gonum matrix,
// rejecting empty and ragged input.
func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, scale.ErrEmptyData
	}
	cols := len(rows[0])
	flat := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged matrix: row %d has %d values, want %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return mat.NewDense(len(rows), cols, flat), nil
}

// rowsFromDense converts a gonum matrix into a row-major JSON matrix.
func rowsFromDense(m *mat.Dense) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		copy(out[i], m.RawRowView(i))
	}
	return out
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

// writeError writes the uniform error response body.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
