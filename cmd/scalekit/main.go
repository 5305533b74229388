// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

// Package main is the scalekit command-line tool.
//
// scalekit scales a CSV dataset with one of the supported strategies
// and optionally persists the fitted model for later reuse:
//
//	scalekit -i raw.csv -o scaled.csv --scaler min_max --output-model prices.gob
//	scalekit -i scaled.csv -o recovered.csv --input-model prices.gob --inverse
//
// Rows are observations, columns are features. When --input-model is
// given the stored model is used as-is; otherwise a new model is fitted
// on the input data before transforming it.
package main

import (
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/mat"

	"github.com/mfaltys/scalekit/internal/logging"
	"github.com/mfaltys/scalekit/internal/scale"
)

type options struct {
	input       string
	output      string
	scaler      string
	minValue    int
	maxValue    int
	epsilon     float64
	inverse     bool
	inputModel  string
	outputModel string
	verbose     bool
}

func main() {
	var opts options

	pflag.StringVarP(&opts.input, "input", "i", "", "input CSV file (required)")
	pflag.StringVarP(&opts.output, "output", "o", "", "output CSV file")
	pflag.StringVarP(&opts.scaler, "scaler", "s", "standard", "scaling strategy: min_max, max_abs, mean, standard, pca, zca")
	pflag.IntVar(&opts.minValue, "min-value", scale.DefaultMinValue, "lower bound of the min_max output range")
	pflag.IntVar(&opts.maxValue, "max-value", scale.DefaultMaxValue, "upper bound of the min_max output range")
	pflag.Float64Var(&opts.epsilon, "epsilon", scale.DefaultEpsilon, "regularization added to eigenvalues for pca/zca whitening")
	pflag.BoolVar(&opts.inverse, "inverse", false, "apply the inverse transform instead of the forward one")
	pflag.StringVar(&opts.inputModel, "input-model", "", "load a previously fitted model instead of fitting")
	pflag.StringVar(&opts.outputModel, "output-model", "", "save the fitted model to this file")
	pflag.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pflag.Parse()

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: "console"})

	if err := run(opts); err != nil {
		logging.Fatal().Err(err).Msg("scalekit failed")
	}
}

func run(opts options) error {
	if opts.input == "" {
		pflag.Usage()
		return fmt.Errorf("--input is required")
	}
	if opts.inverse && opts.inputModel == "" {
		return fmt.Errorf("--inverse requires --input-model, since a new model fitted on the input would be degenerate")
	}

	data, err := readCSV(opts.input)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.input, err)
	}
	rows, cols := data.Dims()
	logging.Debug().Str("file", opts.input).Int("rows", rows).Int("cols", cols).Msg("dataset loaded")

	var model *scale.ScalingModel
	if opts.inputModel != "" {
		model, err = readModelFile(opts.inputModel)
		if err != nil {
			return fmt.Errorf("load model %s: %w", opts.inputModel, err)
		}
		logging.Debug().
			Str("file", opts.inputModel).
			Str("scaler_type", model.ScalerType().String()).
			Msg("model loaded")
	} else {
		typ, err := scale.ParseScalerType(opts.scaler)
		if err != nil {
			return err
		}
		model = scale.NewScalingModel(opts.minValue, opts.maxValue, opts.epsilon)
		model.SetScalerType(typ)
		if err := model.Fit(data); err != nil {
			return fmt.Errorf("fit %s: %w", typ, err)
		}
		logging.Debug().Str("scaler_type", typ.String()).Msg("model fitted")
	}

	var out *mat.Dense
	if opts.inverse {
		out, err = model.InverseTransform(data)
	} else {
		out, err = model.Transform(data)
	}
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}

	if opts.output != "" {
		if err := writeCSV(opts.output, out); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		logging.Debug().Str("file", opts.output).Msg("output written")
	}

	if opts.outputModel != "" {
		if err := writeModelFile(opts.outputModel, model); err != nil {
			return fmt.Errorf("save model %s: %w", opts.outputModel, err)
		}
		logging.Debug().Str("file", opts.outputModel).Msg("model saved")
	}

	return nil
}

// readCSV parses a headerless numeric CSV file into a matrix with rows
// as observations.
func readCSV(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, scale.ErrEmptyData
	}

	cols := len(records[0])
	flat := make([]float64, 0, len(records)*cols)
	for i, record := range records {
		if len(record) != cols {
			return nil, fmt.Errorf("row %d has %d fields, want %d", i+1, len(record), cols)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", i+1, j+1, err)
			}
			flat = append(flat, v)
		}
	}
	return mat.NewDense(len(records), cols, flat), nil
}

// writeCSV writes a matrix as a headerless CSV file.
func writeCSV(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows, cols := m.Dims()
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// readModelFile decodes a gob-encoded scaling model from a single file,
// as written by writeModelFile.
func readModelFile(path string) (*scale.ScalingModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var model scale.ScalingModel
	if err := gob.NewDecoder(f).Decode(&model); err != nil {
		return nil, err
	}
	return &model, nil
}

// writeModelFile gob-encodes a scaling model to a single file.
func writeModelFile(path string, model *scale.ScalingModel) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(model); err != nil {
		return err
	}
	return f.Close()
}
