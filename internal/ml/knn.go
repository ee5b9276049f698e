package ml

import (
	"errors"
	"fmt"
	"sort"
)

// KNNRegressor predicts the mean label of the k nearest training rows
// by Euclidean distance. The training data itself is the artifact.
type KNNRegressor struct {
	Neighbors int         `json:"neighbors"`
	Rows      [][]float64 `json:"rows"`
	Labels    []float64   `json:"labels"`
}

func FitKNN(X [][]float64, y []float64, k int) (*KNNRegressor, error) {
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
	if k > len(X) {
		k = len(X)
	}

	rows := make([][]float64, len(X))
	for i, row := range X {
		rows[i] = append([]float64(nil), row...)
	}

	return &KNNRegressor{
		Neighbors: k,
		Rows:      rows,
		Labels:    append([]float64(nil), y...),
	}, nil
}

func (m *KNNRegressor) Predict(features []float64) (float64, error) {
	if len(m.Rows) == 0 {
		return 0, errors.New("model has no training rows")
	}
	if len(features) != len(m.Rows[0]) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Rows[0]), len(features))
	}

	type neighbor struct {
		dist  float64
		label float64
	}
	neighbors := make([]neighbor, len(m.Rows))
	for i, row := range m.Rows {
		var dist float64
		for j := range row {
			d := row[j] - features[j]
			dist += d * d
		}
		neighbors[i] = neighbor{dist: dist, label: m.Labels[i]}
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].dist < neighbors[j].dist })

	k := m.Neighbors
	if k <= 0 || k > len(neighbors) {
		k = len(neighbors)
	}
	var sum float64
	for i := 0; i < k; i++ {
		sum += neighbors[i].label
	}
	return sum / float64(k), nil
}
