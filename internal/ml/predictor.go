// Package ml holds the training and prediction collaborators: CSV
// dataset handling, the regression algorithms and the versioned
// artifact codec. The metering core treats all of this as replaceable
// glue behind the Predictor and Trainer contracts.
package ml

import "fmt"

// Algorithm names accepted by Fit and recorded in model metadata.
const (
	AlgorithmLinearRegression = "linear_regression"
	AlgorithmKNN              = "knn"
)

// DefaultKNNNeighbors is used when a KNN train request does not set k.
const DefaultKNNNeighbors = 3

// Predictor is a reconstituted trained model. The features slice must
// follow the feature order recorded at training time.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// TrainOptions carries algorithm-specific knobs.
type TrainOptions struct {
	// Neighbors is the k for KNN; ignored by other algorithms.
	Neighbors int
}

// Fit trains a predictor on the rows of X against y. X rows must all
// have the same width and len(X) == len(y).
func Fit(algorithm string, X [][]float64, y []float64, opts TrainOptions) (Predictor, error) {
	switch algorithm {
	case AlgorithmLinearRegression:
		return FitLinearRegression(X, y)
	case AlgorithmKNN:
		k := opts.Neighbors
		if k <= 0 {
			k = DefaultKNNNeighbors
		}
		return FitKNN(X, y, k)
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
}
