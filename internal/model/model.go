package model

import (
	"time"

	"github.com/lib/pq"
)

// MetadataSchemaVersion is bumped whenever the stored metadata shape
// changes, so old records remain readable.
const MetadataSchemaVersion = 1

// ModelRecord is a trained predictor plus the metadata needed to drive
// it. FeatureNames order is significant: it is the column order the
// predictor was trained on and the order prediction inputs are fed in.
type ModelRecord struct {
	Name          string         `db:"name" json:"name"`
	Artifact      []byte         `db:"artifact" json:"-"`
	Algorithm     string         `db:"algorithm" json:"algorithm"`
	FeatureNames  pq.StringArray `db:"feature_names" json:"features"`
	LabelName     string         `db:"label_name" json:"label"`
	SchemaVersion int            `db:"schema_version" json:"schemaVersion"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

type PutModelParams struct {
	Name         string
	Artifact     []byte
	Algorithm    string
	FeatureNames []string
	LabelName    string
}

// ModelMetadata is the listing projection: everything except the
// serialized artifact, which the registry exclusively owns.
type ModelMetadata struct {
	Name          string         `db:"name" json:"name"`
	Algorithm     string         `db:"algorithm" json:"algorithm"`
	FeatureNames  pq.StringArray `db:"feature_names" json:"features"`
	LabelName     string         `db:"label_name" json:"label"`
	SchemaVersion int            `db:"schema_version" json:"schemaVersion"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}
