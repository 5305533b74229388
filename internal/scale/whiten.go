// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

package scale

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// errFactorization indicates the eigendecomposition of the covariance
// matrix did not converge.
var errFactorization = errors.New("covariance eigendecomposition failed")

// fitWhitening computes the shared whitening parameters: the per-feature
// mean and the eigendecomposition of the sample covariance matrix.
// Eigenvalues that come out slightly negative from the factorization are
// clamped to zero so the epsilon-regularized square roots stay real.
func fitWhitening(x mat.Matrix) (mean []float64, vecs *mat.Dense, vals []float64, err error) {
	rows, cols, err := checkTrainingData(x)
	if err != nil {
		return nil, nil, nil, err
	}
	if rows < 2 {
		return nil, nil, nil, fmt.Errorf("%w: whitening needs at least 2 observations, got %d", ErrInsufficientData, rows)
	}

	mean = make([]float64, cols)
	for j := 0; j < cols; j++ {
		mean[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}

	centered := centerRows(x, mean)

	// Sample covariance: C = Xc' * Xc / (n - 1).
	var prod mat.Dense
	prod.Mul(centered.T(), centered)
	prod.Scale(1/float64(rows-1), &prod)

	cov := mat.NewSymDense(cols, nil)
	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			cov.SetSym(i, j, (prod.At(i, j)+prod.At(j, i))/2)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(cov, true); !ok {
		return nil, nil, nil, errFactorization
	}

	vals = es.Values(nil)
	for i, v := range vals {
		if v < 0 {
			vals[i] = 0
		}
	}

	vecs = &mat.Dense{}
	es.VectorsTo(vecs)

	return mean, vecs, vals, nil
}

// centerRows subtracts the per-feature mean from every row of x.
func centerRows(x mat.Matrix, mean []float64) *mat.Dense {
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, x.At(i, j)-mean[j])
		}
	}
	return out
}

// scaleColumns multiplies every column of m in place by the corresponding
// factor.
func scaleColumns(m *mat.Dense, factors []float64) {
	rows, cols := m.Dims()
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			m.Set(i, j, m.At(i, j)*factors[j])
		}
	}
}

// whitenFactors returns per-component multipliers 1/sqrt(lambda+epsilon)
// and their reciprocals sqrt(lambda+epsilon).
func whitenFactors(vals []float64, epsilon float64) (forward, inverse []float64) {
	forward = make([]float64, len(vals))
	inverse = make([]float64, len(vals))
	for i, v := range vals {
		root := math.Sqrt(v + epsilon)
		forward[i] = 1 / root
		inverse[i] = root
	}
	return forward, inverse
}

// PCAWhitening projects data onto the principal components of the training
// set and rescales each component to unit variance, regularized by Epsilon.
//
// Fields are exported for gob encoding.
type PCAWhitening struct {
	// Epsilon regularizes the per-component variance before the square
	// root, keeping near-singular components bounded.
	Epsilon float64

	// Mean holds the per-feature mean observed during Fit.
	Mean []float64

	// Eigvecs holds the eigenvectors of the sample covariance matrix,
	// one per column, in ascending eigenvalue order.
	Eigvecs *mat.Dense

	// Eigvals holds the matching eigenvalues, clamped at zero.
	Eigvals []float64

	Fitted bool
}

// NewPCAWhitening creates a PCA whitening scaler with the given epsilon.
func NewPCAWhitening(epsilon float64) *PCAWhitening {
	return &PCAWhitening{Epsilon: epsilon}
}

// Fit computes the mean and covariance eigendecomposition of the training
// matrix.
func (s *PCAWhitening) Fit(x mat.Matrix) error {
	mean, vecs, vals, err := fitWhitening(x)
	if err != nil {
		return err
	}
	s.Mean = mean
	s.Eigvecs = vecs
	s.Eigvals = vals
	s.Fitted = true
	return nil
}

// Transform centers the input, projects it onto the principal components
// and rescales each component to unit variance.
func (s *PCAWhitening) Transform(x mat.Matrix) (*mat.Dense, error) {
	_, _, err := checkTransformInput(x, s.Fitted, len(s.Mean))
	if err != nil {
		return nil, err
	}

	forward, _ := whitenFactors(s.Eigvals, s.Epsilon)

	var proj mat.Dense
	proj.Mul(centerRows(x, s.Mean), s.Eigvecs)
	scaleColumns(&proj, forward)
	return &proj, nil
}

// InverseTransform rotates whitened components back into feature space and
// restores the mean.
func (s *PCAWhitening) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	_, _, err := checkTransformInput(x, s.Fitted, len(s.Mean))
	if err != nil {
		return nil, err
	}

	_, inverse := whitenFactors(s.Eigvals, s.Epsilon)

	rescaled := mat.DenseCopyOf(x)
	scaleColumns(rescaled, inverse)

	var out mat.Dense
	out.Mul(rescaled, s.Eigvecs.T())
	addMean(&out, s.Mean)
	return &out, nil
}

// Clone returns an independent deep copy of the scaler.
func (s *PCAWhitening) Clone() Scaler {
	c := &PCAWhitening{
		Epsilon: s.Epsilon,
		Mean:    cloneFloats(s.Mean),
		Eigvals: cloneFloats(s.Eigvals),
		Fitted:  s.Fitted,
	}
	if s.Eigvecs != nil {
		c.Eigvecs = mat.DenseCopyOf(s.Eigvecs)
	}
	return c
}

// ZCAWhitening applies PCA whitening followed by a rotation back into the
// original feature basis, producing whitened data that stays as close as
// possible to the input.
//
// Fields are exported for gob encoding.
type ZCAWhitening struct {
	// Epsilon regularizes the per-component variance before the square
	// root, keeping near-singular components bounded.
	Epsilon float64

	// Mean holds the per-feature mean observed during Fit.
	Mean []float64

	// Eigvecs holds the eigenvectors of the sample covariance matrix,
	// one per column, in ascending eigenvalue order.
	Eigvecs *mat.Dense

	// Eigvals holds the matching eigenvalues, clamped at zero.
	Eigvals []float64

	Fitted bool
}

// NewZCAWhitening creates a ZCA whitening scaler with the given epsilon.
func NewZCAWhitening(epsilon float64) *ZCAWhitening {
	return &ZCAWhitening{Epsilon: epsilon}
}

// Fit computes the mean and covariance eigendecomposition of the training
// matrix.
func (s *ZCAWhitening) Fit(x mat.Matrix) error {
	mean, vecs, vals, err := fitWhitening(x)
	if err != nil {
		return err
	}
	s.Mean = mean
	s.Eigvecs = vecs
	s.Eigvals = vals
	s.Fitted = true
	return nil
}

// Transform whitens the input and rotates it back into the original
// feature basis.
func (s *ZCAWhitening) Transform(x mat.Matrix) (*mat.Dense, error) {
	_, _, err := checkTransformInput(x, s.Fitted, len(s.Mean))
	if err != nil {
		return nil, err
	}

	forward, _ := whitenFactors(s.Eigvals, s.Epsilon)

	var proj mat.Dense
	proj.Mul(centerRows(x, s.Mean), s.Eigvecs)
	scaleColumns(&proj, forward)

	var out mat.Dense
	out.Mul(&proj, s.Eigvecs.T())
	return &out, nil
}

// InverseTransform undoes the whitening rotation and restores the mean.
func (s *ZCAWhitening) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	_, _, err := checkTransformInput(x, s.Fitted, len(s.Mean))
	if err != nil {
		return nil, err
	}

	_, inverse := whitenFactors(s.Eigvals, s.Epsilon)

	var proj mat.Dense
	proj.Mul(x, s.Eigvecs)
	scaleColumns(&proj, inverse)

	var out mat.Dense
	out.Mul(&proj, s.Eigvecs.T())
	addMean(&out, s.Mean)
	return &out, nil
}

// Clone returns an independent deep copy of the scaler.
func (s *ZCAWhitening) Clone() Scaler {
	c := &ZCAWhitening{
		Epsilon: s.Epsilon,
		Mean:    cloneFloats(s.Mean),
		Eigvals: cloneFloats(s.Eigvals),
		Fitted:  s.Fitted,
	}
	if s.Eigvecs != nil {
		c.Eigvecs = mat.DenseCopyOf(s.Eigvecs)
	}
	return c
}

// addMean adds the per-feature mean to every row of m in place.
func addMean(m *mat.Dense, mean []float64) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, m.At(i, j)+mean[j])
		}
	}
}
