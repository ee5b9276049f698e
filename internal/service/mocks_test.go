package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/modelmeter/modelmeter/internal/model"
	"github.com/modelmeter/modelmeter/internal/repository"
)

// Mock repositories

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *mockAccountRepo) Debit(ctx context.Context, email string, amount int64) (int64, error) {
	args := m.Called(ctx, email, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccountRepo) Credit(ctx context.Context, email string, amount int64) (int64, error) {
	args := m.Called(ctx, email, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAccountRepo) ListBalances(ctx context.Context) ([]model.AccountBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccountBalance), args.Error(1)
}

func (m *mockAccountRepo) WithTx(tx *sqlx.Tx) repository.AccountRepository {
	return m
}

type mockModelRegistry struct {
	mock.Mock
}

func (m *mockModelRegistry) Put(ctx context.Context, params model.PutModelParams) (*model.ModelRecord, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ModelRecord), args.Error(1)
}

func (m *mockModelRegistry) Get(ctx context.Context, name string) (*model.ModelRecord, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ModelRecord), args.Error(1)
}

func (m *mockModelRegistry) List(ctx context.Context) ([]model.ModelMetadata, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ModelMetadata), args.Error(1)
}

func (m *mockModelRegistry) WithTx(tx *sqlx.Tx) repository.ModelRegistry {
	return m
}

type mockUsageRepo struct {
	mock.Mock
}

func (m *mockUsageRepo) Record(ctx context.Context, email, action string, modelName *string) error {
	args := m.Called(ctx, email, action, modelName)
	return args.Error(0)
}

func (m *mockUsageRepo) Summary(ctx context.Context, email string) (*model.UsageSummary, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UsageSummary), args.Error(1)
}

func (m *mockUsageRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUsageRepo) WithTx(tx *sqlx.Tx) repository.UsageLogRepository {
	return m
}
