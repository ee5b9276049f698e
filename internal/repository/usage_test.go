package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmeter/modelmeter/internal/model"
)

func TestUsageLogRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewUsageLogRepository(db.DB)
	ctx := context.Background()
	email := testEmail(t)

	modelName := "m1"
	require.NoError(t, repo.Record(ctx, email, model.UsageActionTrain, &modelName))
	require.NoError(t, repo.Record(ctx, email, model.UsageActionPredict, &modelName))
	require.NoError(t, repo.Record(ctx, email, model.UsageActionPredict, &modelName))

	t.Run("summary counts per action", func(t *testing.T) {
		summary, err := repo.Summary(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.ModelsTrained)
		assert.Equal(t, 2, summary.PredictionsMade)
	})

	t.Run("summary for unknown account is zero", func(t *testing.T) {
		summary, err := repo.Summary(ctx, "nobody@test.local")
		require.NoError(t, err)
		assert.Equal(t, 0, summary.ModelsTrained)
		assert.Equal(t, 0, summary.PredictionsMade)
	})

	t.Run("retention delete does not touch recent rows", func(t *testing.T) {
		_, err := repo.DeleteOlderThan(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)

		summary, err := repo.Summary(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.ModelsTrained)
	})
}
