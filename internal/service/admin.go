package service

import (
	"context"

	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/model"
	"github.com/modelmeter/modelmeter/internal/repository"
)

// AdminService backs the operator-facing listings. There is currently
// no authorization tier above a valid bearer token.
type AdminService struct {
	accountRepo repository.AccountRepository
	usageRepo   repository.UsageLogRepository
}

func NewAdminService(accountRepo repository.AccountRepository, usageRepo repository.UsageLogRepository) *AdminService {
	return &AdminService{accountRepo: accountRepo, usageRepo: usageRepo}
}

func (s *AdminService) ListAccounts(ctx context.Context) ([]model.AccountBalance, error) {
	balances, err := s.accountRepo.ListBalances(ctx)
	if err != nil {
		return nil, apperrors.Database("failed to list accounts", err)
	}
	return balances, nil
}

func (s *AdminService) UsageSummary(ctx context.Context, email string) (*model.UsageSummary, error) {
	summary, err := s.usageRepo.Summary(ctx, email)
	if err != nil {
		return nil, apperrors.Database("failed to load usage summary", err)
	}
	return summary, nil
}
