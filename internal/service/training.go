package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/modelmeter/modelmeter/internal/audit"
	"github.com/modelmeter/modelmeter/internal/config"
	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/ml"
	"github.com/modelmeter/modelmeter/internal/model"
	"github.com/modelmeter/modelmeter/internal/repository"
)

type TrainingService struct {
	gateway  *Gateway
	registry repository.ModelRegistry
}

func NewTrainingService(gateway *Gateway, registry repository.ModelRegistry) *TrainingService {
	return &TrainingService{gateway: gateway, registry: registry}
}

type TrainParams struct {
	ModelName    string
	Algorithm    string
	FeatureNames []string
	LabelName    string
	KNNNeighbors int
	Data         io.Reader
}

// Train charges the train price, fits a predictor on the uploaded CSV
// and stores it in the registry. Any failure after the debit (bad CSV,
// unknown column, fit error, storage error) is refunded.
func (t *TrainingService) Train(ctx context.Context, email string, params TrainParams) (*model.ModelRecord, int64, error) {
	if err := validateTrainParams(&params); err != nil {
		return nil, 0, err
	}

	var record *model.ModelRecord
	balance, err := t.gateway.Charge(ctx, email, model.UsageActionTrain, &params.ModelName, config.TrainPrice, func(ctx context.Context) error {
		dataset, err := ml.ParseCSV(params.Data)
		if err != nil {
			return err
		}

		X, y, err := dataset.Columns(params.FeatureNames, params.LabelName)
		if err != nil {
			return err
		}

		predictor, err := ml.Fit(params.Algorithm, X, y, ml.TrainOptions{Neighbors: params.KNNNeighbors})
		if err != nil {
			return apperrors.ValidationError(err.Error()).WithCause(err)
		}

		artifact, err := ml.Encode(params.Algorithm, predictor)
		if err != nil {
			return apperrors.Internal("Failed to serialize model").WithCause(err)
		}

		record, err = t.registry.Put(ctx, model.PutModelParams{
			Name:         params.ModelName,
			Artifact:     artifact,
			Algorithm:    params.Algorithm,
			FeatureNames: params.FeatureNames,
			LabelName:    params.LabelName,
		})
		if err != nil {
			if _, ok := apperrors.AsAppError(err); ok {
				return err
			}
			return apperrors.Database("failed to store model", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	audit.Log(ctx, audit.Event{Type: audit.EventModelTrain, Email: email, ModelName: record.Name})
	log.Info().Str("email", email).Str("model", record.Name).Str("algorithm", record.Algorithm).Msg("model trained")

	return record, balance, nil
}

// ListModels is unmetered; it exposes metadata only.
func (t *TrainingService) ListModels(ctx context.Context) ([]model.ModelMetadata, error) {
	records, err := t.registry.List(ctx)
	if err != nil {
		return nil, apperrors.Database("failed to list models", err)
	}
	return records, nil
}

func validateTrainParams(params *TrainParams) error {
	if strings.TrimSpace(params.ModelName) == "" {
		return apperrors.MissingRequired("modelName")
	}
	if params.Algorithm == "" {
		params.Algorithm = ml.AlgorithmLinearRegression
	}
	if params.Algorithm != ml.AlgorithmLinearRegression && params.Algorithm != ml.AlgorithmKNN {
		return apperrors.InvalidInput("algorithm", "must be linear_regression or knn")
	}
	if len(params.FeatureNames) == 0 {
		return apperrors.MissingRequired("features")
	}
	for i, name := range params.FeatureNames {
		params.FeatureNames[i] = strings.TrimSpace(name)
		if params.FeatureNames[i] == "" {
			return apperrors.InvalidInput("features", "feature names must not be empty")
		}
	}
	params.LabelName = strings.TrimSpace(params.LabelName)
	if params.LabelName == "" {
		return apperrors.MissingRequired("label")
	}
	if params.Data == nil {
		return apperrors.MissingRequired("csv")
	}
	return nil
}
