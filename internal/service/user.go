package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/modelmeter/modelmeter/internal/audit"
	"github.com/modelmeter/modelmeter/internal/auth"
	"github.com/modelmeter/modelmeter/internal/config"
	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/model"
	"github.com/modelmeter/modelmeter/internal/repository"
)

type UserService struct {
	accountRepo repository.AccountRepository
	tokens      *auth.TokenManager
}

func NewUserService(accountRepo repository.AccountRepository, tokens *auth.TokenManager) *UserService {
	return &UserService{accountRepo: accountRepo, tokens: tokens}
}

// NormalizeEmail lower-cases and trims an account identity so lookups
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with the fixed starting token grant.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.Account, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidInput("email", "must be a valid email address")
	}
	if password == "" {
		return nil, apperrors.MissingRequired("password")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password").WithCause(err)
	}

	account, err := s.accountRepo.Create(ctx, model.CreateAccountParams{
		Email:        email,
		PasswordHash: hash,
		Tokens:       config.RegistrationGrant,
	})
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.Event{Type: audit.EventAccountCreate, Email: email})
	log.Info().Str("email", email).Msg("account created")

	return account, nil
}

// Login verifies the credential, credits the login bonus and issues a
// bearer token. Unknown identity and wrong password are deliberately
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (token string, balance int64, err error) {
	email = NormalizeEmail(email)

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", 0, apperrors.Database("account lookup failed", err)
	}
	if account == nil || !auth.CheckPassword(password, account.PasswordHash) {
		audit.Log(ctx, audit.Event{Type: audit.EventLoginFailure, Email: email})
		return "", 0, apperrors.Unauthorized("Invalid email or password")
	}

	balance, err = s.accountRepo.Credit(ctx, email, config.LoginBonus)
	if err != nil {
		return "", 0, apperrors.Database("login bonus credit failed", err)
	}

	token, err = s.tokens.Issue(email)
	if err != nil {
		return "", 0, apperrors.Internal("Failed to issue token").WithCause(err)
	}

	audit.Log(ctx, audit.Event{Type: audit.EventLoginSuccess, Email: email, Amount: config.LoginBonus})

	return token, balance, nil
}
