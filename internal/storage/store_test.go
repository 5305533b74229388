// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package storage

import (
	"encoding/gob"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/mfaltys/scalekit/internal/scale"
)

func fittedModel(t *testing.T, typ scale.ScalerType) (*scale.ScalingModel, *mat.Dense) {
	t.Helper()

	data := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 15,
		4, 40,
	})
	m := scale.NewScalingModel(0, 1, 1e-5)
	m.SetScalerType(typ)
	if err := m.Fit(data); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return m, data
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates directory if not exists",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "models")
			},
			wantErr: false,
		},
		{
			name: "uses existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			store, err := NewStore(dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStore() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && store == nil {
				t.Error("NewStore() returned nil store without error")
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	model, data := fittedModel(t, scale.ScalerPCA)
	want, err := model.Transform(data)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	meta, err := store.Save("prices", 0, model, ModelMetadata{
		Rows:     4,
		Cols:     2,
		FittedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.Version != 1 {
		t.Errorf("Save() version = %d, want 1", meta.Version)
	}
	if meta.ScalerType != scale.ScalerPCA.String() {
		t.Errorf("Save() scaler type = %s, want %s", meta.ScalerType, scale.ScalerPCA)
	}
	if meta.Checksum == "" {
		t.Error("Save() left checksum empty")
	}

	restored, gotMeta, err := store.Load("prices", 0)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if gotMeta.Version != 1 {
		t.Errorf("Load() metadata version = %d, want 1", gotMeta.Version)
	}
	if restored.ScalerType() != scale.ScalerPCA {
		t.Errorf("restored ScalerType() = %s, want %s", restored.ScalerType(), scale.ScalerPCA)
	}

	got, err := restored.Transform(data)
	if err != nil {
		t.Fatalf("Transform() on restored model error = %v", err)
	}
	rows, cols := got.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.Abs(got.At(i, j)-want.At(i, j)) > 1e-12 {
				t.Fatalf("restored output[%d,%d] = %g, want %g", i, j, got.At(i, j), want.At(i, j))
			}
		}
	}
}

func TestStore_VersionAutoIncrement(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	model, _ := fittedModel(t, scale.ScalerMinMax)
	for want := 1; want <= 3; want++ {
		meta, err := store.Save("prices", 0, model, ModelMetadata{})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if meta.Version != want {
			t.Errorf("Save() version = %d, want %d", meta.Version, want)
		}
	}

	if got := store.LatestVersion("prices"); got != 3 {
		t.Errorf("LatestVersion() = %d, want 3", got)
	}
}

func TestStore_ScanExistingModels(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	model, _ := fittedModel(t, scale.ScalerStandard)
	if _, err := store.Save("prices", 2, model, ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A fresh store over the same directory must pick up the version.
	rescanned, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if got := rescanned.LatestVersion("prices"); got != 2 {
		t.Errorf("LatestVersion() after rescan = %d, want 2", got)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, _, err := store.Load("absent", 0); err == nil {
		t.Error("Load() error = nil, want missing-model error")
	}
}

func TestStore_RejectsCorruptedData(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	model, _ := fittedModel(t, scale.ScalerMaxAbs)
	meta, err := store.Save("prices", 0, model, ModelMetadata{})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Rewrite the file with a tampered checksum so the payload no longer
	// verifies.
	path := filepath.Join(dir, "prices_v1.gob")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	_ = f.Close()

	sf.Metadata.Checksum = "0000" + meta.Checksum[4:]
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := gob.NewEncoder(out).Encode(sf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	_ = out.Close()

	if _, _, err := store.Load("prices", 1); err == nil {
		t.Error("Load() error = nil, want checksum mismatch")
	}
}

func TestStore_RejectsUnsafeNames(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "models")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	model, _ := fittedModel(t, scale.ScalerMinMax)

	names := []string{
		"",
		".",
		"..",
		"../escaped",
		"sub/dir",
		`back\slash`,
		"../../etc/cron.d/job",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Save(name, 0, model, ModelMetadata{}); !errors.Is(err, ErrInvalidModelName) {
				t.Errorf("Save(%q) error = %v, want ErrInvalidModelName", name, err)
			}
			if _, _, err := store.Load(name, 1); !errors.Is(err, ErrInvalidModelName) {
				t.Errorf("Load(%q) error = %v, want ErrInvalidModelName", name, err)
			}
			if err := store.Delete(name, 1); !errors.Is(err, ErrInvalidModelName) {
				t.Errorf("Delete(%q) error = %v, want ErrInvalidModelName", name, err)
			}
		})
	}

	// Nothing may land outside the store directory.
	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if e.Name() != "models" {
			t.Errorf("unexpected file escaped store dir: %s", e.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(parent, "escaped_v1.gob")); !os.IsNotExist(err) {
		t.Error("traversal name was written outside the store directory")
	}
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	model, _ := fittedModel(t, scale.ScalerMean)
	if _, err := store.Save("prices", 0, model, ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Save("prices", 0, model, ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Delete("prices", 0); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := store.LatestVersion("prices"); got != 0 {
		t.Errorf("LatestVersion() after delete = %d, want 0", got)
	}
	if _, _, err := store.Load("prices", 1); err == nil {
		t.Error("Load() after delete error = nil, want failure")
	}
}

func TestStore_List(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	model, _ := fittedModel(t, scale.ScalerStandard)
	if _, err := store.Save("alpha", 0, model, ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Save("beta", 0, model, ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Save("beta", 0, model, ModelMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := store.List()
	if len(got) != 2 || got["alpha"] != 1 || got["beta"] != 2 {
		t.Errorf("List() = %v, want map[alpha:1 beta:2]", got)
	}
}
