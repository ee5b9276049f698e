package ml

import (
	"errors"
	"fmt"
	"math"
)

// LinearRegression is an ordinary least-squares model with intercept.
// Weights[i] multiplies feature i; Intercept is the bias term.
type LinearRegression struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// FitLinearRegression solves the normal equations (XᵀX)w = Xᵀy with an
// intercept column appended. Singular systems (collinear features,
// fewer rows than features) are rejected.
func FitLinearRegression(X [][]float64, y []float64) (*LinearRegression, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, errors.New("training data is empty or feature/label row counts differ")
	}
	cols := len(X[0])
	if cols == 0 {
		return nil, errors.New("training data has no feature columns")
	}
	for _, row := range X {
		if len(row) != cols {
			return nil, errors.New("training rows have inconsistent widths")
		}
	}

	// Augment with the intercept column.
	n := cols + 1
	xtx := make([][]float64, n)
	for i := range xtx {
		xtx[i] = make([]float64, n)
	}
	xty := make([]float64, n)

	for r, row := range X {
		aug := append(append(make([]float64, 0, n), row...), 1)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				xtx[i][j] += aug[i] * aug[j]
			}
			xty[i] += aug[i] * y[r]
		}
	}

	solution, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return nil, err
	}

	return &LinearRegression{
		Weights:   solution[:cols],
		Intercept: solution[cols],
	}, nil
}

func (m *LinearRegression) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Weights) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Weights), len(features))
	}
	sum := m.Intercept
	for i, w := range m.Weights {
		sum += w * features[i]
	}
	return sum, nil
}

// solveLinearSystem runs Gaussian elimination with partial pivoting.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	// Work on copies so the caller's matrices are untouched.
	m := make([][]float64, n)
	for i := range a {
		m[i] = append(append(make([]float64, 0, n+1), a[i]...), b[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return nil, errors.New("features are collinear or underdetermined")
		}
		m[col], m[pivot] = m[pivot], m[col]

		for row := col + 1; row < n; row++ {
			factor := m[row][col] / m[col][col]
			for k := col; k <= n; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}

	solution := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := m[row][n]
		for col := row + 1; col < n; col++ {
			sum -= m[row][col] * solution[col]
		}
		solution[row] = sum / m[row][row]
	}
	return solution, nil
}
