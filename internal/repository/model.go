package repository

import (
	"context"
	"regexp"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/model"
)

// unsafeNameChars matches everything outside the storage-key charset.
var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeModelName strips characters outside [a-zA-Z0-9_-]. It is
// deterministic and applied to both put and get, so a raw name always
// round-trips to the same record.
func SanitizeModelName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "")
}

// ModelRegistry is the durable name -> (artifact, metadata) store for
// trained predictors. Put is a last-write-wins overwrite; List returns
// metadata ordered by name.
type ModelRegistry interface {
	Put(ctx context.Context, params model.PutModelParams) (*model.ModelRecord, error)
	Get(ctx context.Context, name string) (*model.ModelRecord, error)
	List(ctx context.Context) ([]model.ModelMetadata, error)
	// WithTx returns a new registry that uses the given transaction
	WithTx(tx *sqlx.Tx) ModelRegistry
}

type modelRepo struct {
	db sqlxDB
}

func NewModelRegistry(db *sqlx.DB) ModelRegistry {
	return &modelRepo{db: db}
}

func (r *modelRepo) WithTx(tx *sqlx.Tx) ModelRegistry {
	return &modelRepo{db: tx}
}

func (r *modelRepo) Put(ctx context.Context, params model.PutModelParams) (*model.ModelRecord, error) {
	name := SanitizeModelName(params.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("modelName", "empty after removing unsafe characters")
	}

	var record model.ModelRecord
	err := r.db.GetContext(ctx, &record, `
		INSERT INTO models (name, artifact, algorithm, feature_names, label_name, schema_version)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			artifact = EXCLUDED.artifact,
			algorithm = EXCLUDED.algorithm,
			feature_names = EXCLUDED.feature_names,
			label_name = EXCLUDED.label_name,
			schema_version = EXCLUDED.schema_version,
			updated_at = now()
		RETURNING *
	`, name, params.Artifact, params.Algorithm, pq.StringArray(params.FeatureNames),
		params.LabelName, model.MetadataSchemaVersion)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *modelRepo) Get(ctx context.Context, name string) (*model.ModelRecord, error) {
	var record model.ModelRecord
	err := r.db.GetContext(ctx, &record, `
		SELECT * FROM models WHERE name = $1
	`, SanitizeModelName(name))
	return HandleNotFound(&record, err)
}

func (r *modelRepo) List(ctx context.Context) ([]model.ModelMetadata, error) {
	var records []model.ModelMetadata
	err := r.db.SelectContext(ctx, &records, `
		SELECT name, algorithm, feature_names, label_name, schema_version, created_at, updated_at
		FROM models
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return records, nil
}
