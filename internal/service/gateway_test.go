package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/model"
)

func TestGateway_Charge(t *testing.T) {
	ctx := context.Background()
	modelName := "m1"

	t.Run("debits, runs operation and records usage", func(t *testing.T) {
		ledger := new(mockAccountRepo)
		usage := new(mockUsageRepo)
		gateway := NewGateway(ledger, usage)

		ledger.On("Debit", ctx, "a@x.com", int64(5)).Return(int64(10), nil)
		usage.On("Record", ctx, "a@x.com", model.UsageActionPredict, &modelName).Return(nil)

		ran := false
		balance, err := gateway.Charge(ctx, "a@x.com", model.UsageActionPredict, &modelName, 5, func(ctx context.Context) error {
			ran = true
			return nil
		})

		require.NoError(t, err)
		assert.True(t, ran)
		assert.Equal(t, int64(10), balance)
		ledger.AssertExpectations(t)
		usage.AssertExpectations(t)
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient tokens never runs the operation", func(t *testing.T) {
		ledger := new(mockAccountRepo)
		usage := new(mockUsageRepo)
		gateway := NewGateway(ledger, usage)

		ledger.On("Debit", ctx, "a@x.com", int64(5)).Return(int64(0), apperrors.InsufficientTokens())

		_, err := gateway.Charge(ctx, "a@x.com", model.UsageActionPredict, &modelName, 5, func(ctx context.Context) error {
			t.Fatal("operation must not run after a rejected debit")
			return nil
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInsufficientTokens))
		ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
		usage.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("operation failure refunds the debit", func(t *testing.T) {
		ledger := new(mockAccountRepo)
		usage := new(mockUsageRepo)
		gateway := NewGateway(ledger, usage)

		ledger.On("Debit", ctx, "a@x.com", int64(5)).Return(int64(10), nil)
		ledger.On("Credit", ctx, "a@x.com", int64(5)).Return(int64(15), nil)

		opErr := apperrors.NotFound("Model")
		_, err := gateway.Charge(ctx, "a@x.com", model.UsageActionPredict, &modelName, 5, func(ctx context.Context) error {
			return opErr
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
		ledger.AssertExpectations(t)
		usage.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refund failure still propagates the operation error", func(t *testing.T) {
		ledger := new(mockAccountRepo)
		usage := new(mockUsageRepo)
		gateway := NewGateway(ledger, usage)

		ledger.On("Debit", ctx, "a@x.com", int64(1)).Return(int64(4), nil)
		ledger.On("Credit", ctx, "a@x.com", int64(1)).Return(int64(0), errors.New("store unreachable"))

		_, err := gateway.Charge(ctx, "a@x.com", model.UsageActionTrain, &modelName, 1, func(ctx context.Context) error {
			return apperrors.ValidationError("bad csv")
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	})

	t.Run("usage record failure does not fail the operation", func(t *testing.T) {
		ledger := new(mockAccountRepo)
		usage := new(mockUsageRepo)
		gateway := NewGateway(ledger, usage)

		ledger.On("Debit", ctx, "a@x.com", int64(1)).Return(int64(14), nil)
		usage.On("Record", ctx, "a@x.com", model.UsageActionTrain, &modelName).Return(errors.New("insert failed"))

		balance, err := gateway.Charge(ctx, "a@x.com", model.UsageActionTrain, &modelName, 1, func(ctx context.Context) error {
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, int64(14), balance)
	})
}
