package model

import "time"

// Usage actions recorded per charged operation.
const (
	UsageActionTrain   = "train"
	UsageActionPredict = "predict"
)

type UsageLog struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Action    string    `db:"action" json:"action"`
	ModelName *string   `db:"model_name" json:"modelName,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// UsageSummary aggregates an account's charged operations.
type UsageSummary struct {
	ModelsTrained   int `json:"modelsTrained"`
	PredictionsMade int `json:"predictionsMade"`
}
