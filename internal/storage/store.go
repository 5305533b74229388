// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

// Package storage provides versioned on-disk persistence for fitted
// scaling models.
//
// Models are serialized with gob, compressed with gzip and stored with
// metadata including version, timestamps and a SHA-256 checksum so loads
// can detect corruption.
//
// # Thread Safety
//
// All store operations are safe for concurrent use.
package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mfaltys/scalekit/internal/scale"
)

// ModelMetadata contains information about a stored scaling model.
type ModelMetadata struct {
	// Name identifies the model within the store.
	Name string `json:"name"`

	// Version is the model version (monotonically increasing).
	Version int `json:"version"`

	// ScalerType is the canonical name of the fitted strategy.
	ScalerType string `json:"scaler_type"`

	// Rows and Cols record the shape of the training matrix.
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// FittedAt is when the model was fitted.
	FittedAt time.Time `json:"fitted_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the SHA-256 checksum of the serialized model.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// storedFile is the on-disk format for model files.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// Store manages scaling model persistence under a base directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// Latest version per model name.
	versions map[string]int
}

// NewStore creates a model store at the given directory, creating it if
// needed, and scans for existing model files.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}

	return s, nil
}

// scanModels scans the storage directory for existing model files.
func (s *Store) scanModels() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if len(name) <= 4 || name[len(name)-4:] != ".gob" {
			continue
		}
		name = name[:len(name)-4]

		modelName, version := parseModelFilename(name)
		if modelName == "" {
			continue
		}

		if current, ok := s.versions[modelName]; !ok || version > current {
			s.versions[modelName] = version
		}
	}

	return nil
}

// parseModelFilename extracts model name and version from a filename like
// "prices_v3".
func parseModelFilename(name string) (modelName string, version int) {
	lastVIdx := -1
	for i := len(name) - 1; i >= 1; i-- {
		if name[i] == 'v' && name[i-1] == '_' {
			lastVIdx = i - 1
			break
		}
	}
	if lastVIdx < 0 {
		return "", 0
	}

	modelName = name[:lastVIdx]
	if _, err := fmt.Sscanf(name[lastVIdx+2:], "%d", &version); err != nil {
		return "", 0
	}
	return modelName, version
}

// modelPath returns the file path for a model name and version.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d.gob", name, version))
}

// ErrInvalidModelName indicates a model name that cannot be used as a
// filename inside the store directory.
var ErrInvalidModelName = errors.New("invalid model name")

// validateModelName rejects names that would resolve outside the store's
// base directory. Model names arrive from API clients, so they must stay
// a plain filename component.
func validateModelName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("%w: %q", ErrInvalidModelName, name)
	}
	return nil
}

// LatestVersion returns the highest stored version for a model name, or 0
// if none exists.
func (s *Store) LatestVersion(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[name]
}

// Save stores a fitted scaling model under the given name. If version is 0
// the next version after the latest stored one is used. Returns the
// metadata actually written.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(name string, version int, model *scale.ScalingModel, meta ModelMetadata) (*ModelMetadata, error) {
	if err := validateModelName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version == 0 {
		version = s.versions[name] + 1
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(model); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Name = name
	meta.Version = version
	meta.ScalerType = model.ScalerType().String()
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()

	filename := s.modelPath(name, version)
	f, err := os.Create(filename) //nolint:gosec // filename is constructed from trusted name parameter
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after write is surfaced via Encode

	sf := storedFile{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		return nil, fmt.Errorf("write model file: %w", err)
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}

	return &meta, nil
}

// Load restores a scaling model by name and version. If version is 0 the
// latest stored version is loaded. The checksum is verified before the
// model is decoded.
func (s *Store) Load(name string, version int) (*scale.ScalingModel, *ModelMetadata, error) {
	if err := validateModelName(name); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, nil, fmt.Errorf("no model found for %s", name)
		}
	}

	filename := s.modelPath(name, version)
	f, err := os.Open(filename) //nolint:gosec // name is validated to a single path component above
	if err != nil {
		return nil, nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, nil, fmt.Errorf("read model file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	model := &scale.ScalingModel{}
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(model); err != nil {
		return nil, nil, fmt.Errorf("decode model: %w", err)
	}

	return model, &sf.Metadata, nil
}

// Delete removes a stored model version. If version is 0 all versions of
// the model are removed.
func (s *Store) Delete(name string, version int) error {
	if err := validateModelName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if version != 0 {
		if err := os.Remove(s.modelPath(name, version)); err != nil {
			return fmt.Errorf("remove model file: %w", err)
		}
		if s.versions[name] == version {
			delete(s.versions, name)
		}
		return nil
	}

	latest, ok := s.versions[name]
	if !ok {
		return fmt.Errorf("no model found for %s", name)
	}
	for v := 1; v <= latest; v++ {
		if err := os.Remove(s.modelPath(name, v)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove model file: %w", err)
		}
	}
	delete(s.versions, name)
	return nil
}

// List returns the names of all stored models with their latest versions.
func (s *Store) List() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.versions))
	for name, v := range s.versions {
		out[name] = v
	}
	return out
}
