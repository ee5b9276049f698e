package ml

import (
	"encoding/json"
	"fmt"
)

// artifactVersion is the serialization format version. Bump it when
// the envelope or a payload shape changes; Decode rejects versions it
// does not know instead of misreading them.
const artifactVersion = 1

type artifactEnvelope struct {
	Version   int             `json:"version"`
	Algorithm string          `json:"algorithm"`
	Payload   json.RawMessage `json:"payload"`
}

// Encode serializes a predictor into a versioned artifact.
func Encode(algorithm string, p Predictor) ([]byte, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", algorithm, err)
	}
	return json.Marshal(artifactEnvelope{
		Version:   artifactVersion,
		Algorithm: algorithm,
		Payload:   payload,
	})
}

// Decode reconstitutes a predictor from a stored artifact.
func Decode(artifact []byte) (Predictor, error) {
	var envelope artifactEnvelope
	if err := json.Unmarshal(artifact, &envelope); err != nil {
		return nil, fmt.Errorf("decode artifact envelope: %w", err)
	}
	if envelope.Version != artifactVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", envelope.Version)
	}

	switch envelope.Algorithm {
	case AlgorithmLinearRegression:
		var m LinearRegression
		if err := json.Unmarshal(envelope.Payload, &m); err != nil {
			return nil, fmt.Errorf("decode linear regression payload: %w", err)
		}
		return &m, nil
	case AlgorithmKNN:
		var m KNNRegressor
		if err := json.Unmarshal(envelope.Payload, &m); err != nil {
			return nil, fmt.Errorf("decode knn payload: %w", err)
		}
		return &m, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q in artifact", envelope.Algorithm)
	}
}
