package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/modelmeter/modelmeter/internal/model"
)

// UsageLogRepository records charged operations for per-account usage
// summaries and retention cleanup.
type UsageLogRepository interface {
	Record(ctx context.Context, email, action string, modelName *string) error
	Summary(ctx context.Context, email string) (*model.UsageSummary, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) UsageLogRepository
}

type usageLogRepo struct {
	db sqlxDB
}

func NewUsageLogRepository(db *sqlx.DB) UsageLogRepository {
	return &usageLogRepo{db: db}
}

func (r *usageLogRepo) WithTx(tx *sqlx.Tx) UsageLogRepository {
	return &usageLogRepo{db: tx}
}

func (r *usageLogRepo) Record(ctx context.Context, email, action string, modelName *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usage_logs (email, action, model_name)
		VALUES ($1, $2, $3)
	`, email, action, modelName)
	return err
}

func (r *usageLogRepo) Summary(ctx context.Context, email string) (*model.UsageSummary, error) {
	var summary model.UsageSummary
	err := r.db.GetContext(ctx, &summary.ModelsTrained, `
		SELECT COUNT(*) FROM usage_logs WHERE email = $1 AND action = $2
	`, email, model.UsageActionTrain)
	if err != nil {
		return nil, err
	}
	err = r.db.GetContext(ctx, &summary.PredictionsMade, `
		SELECT COUNT(*) FROM usage_logs WHERE email = $1 AND action = $2
	`, email, model.UsageActionPredict)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *usageLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM usage_logs WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
