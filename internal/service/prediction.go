package service

import (
	"context"
	"fmt"

	"github.com/modelmeter/modelmeter/internal/audit"
	"github.com/modelmeter/modelmeter/internal/config"
	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/ml"
	"github.com/modelmeter/modelmeter/internal/model"
	"github.com/modelmeter/modelmeter/internal/repository"
)

type PredictionService struct {
	gateway  *Gateway
	registry repository.ModelRegistry
}

func NewPredictionService(gateway *Gateway, registry repository.ModelRegistry) *PredictionService {
	return &PredictionService{gateway: gateway, registry: registry}
}

// Predict charges the predict price and runs the named model against
// the given feature values. A missing model or missing feature value
// fails after the debit and is refunded, so the net balance is
// unchanged.
func (p *PredictionService) Predict(ctx context.Context, email, modelName string, values map[string]float64) (float64, int64, error) {
	if modelName == "" {
		return 0, 0, apperrors.MissingRequired("modelName")
	}
	if len(values) == 0 {
		return 0, 0, apperrors.MissingRequired("features")
	}

	var prediction float64
	balance, err := p.gateway.Charge(ctx, email, model.UsageActionPredict, &modelName, config.PredictPrice, func(ctx context.Context) error {
		record, err := p.registry.Get(ctx, modelName)
		if err != nil {
			return apperrors.Database("failed to load model", err)
		}
		if record == nil {
			return apperrors.NotFound("Model")
		}

		predictor, err := ml.Decode(record.Artifact)
		if err != nil {
			return apperrors.Internal("Failed to decode stored model").WithCause(err)
		}

		// Order the inputs by the feature order recorded at training
		// time; this is what makes FeatureNames order significant.
		features := make([]float64, len(record.FeatureNames))
		for i, name := range record.FeatureNames {
			value, ok := values[name]
			if !ok {
				return apperrors.InvalidInput("features", fmt.Sprintf("missing value for %q", name))
			}
			features[i] = value
		}

		prediction, err = predictor.Predict(features)
		if err != nil {
			return apperrors.ValidationError(err.Error()).WithCause(err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	audit.Log(ctx, audit.Event{Type: audit.EventModelPredict, Email: email, ModelName: modelName})

	return prediction, balance, nil
}
