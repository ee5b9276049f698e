package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/model"
)

// AccountRepository is both the credential store and the token ledger:
// identity, secret hash and balance share one row, so the conditional
// debit is a single-row atomic update.
type AccountRepository interface {
	Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	// Debit decrements the balance only if it covers amount. The
	// check-and-decrement is one conditional UPDATE, so concurrent
	// debits against the same account serialize on the row lock and
	// the balance can never go negative. Returns the new balance, or
	// an INSUFFICIENT_TOKENS error when the balance does not cover
	// amount (or the account does not exist).
	Debit(ctx context.Context, email string, amount int64) (int64, error)
	// Credit unconditionally adds amount and returns the new balance.
	Credit(ctx context.Context, email string, amount int64) (int64, error)
	// ListBalances returns every account's email and balance, ordered
	// by email.
	ListBalances(ctx context.Context) ([]model.AccountBalance, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AccountRepository
}

type accountRepo struct {
	db sqlxDB
}

// sqlxDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sqlxDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) WithTx(tx *sqlx.Tx) AccountRepository {
	return &accountRepo{db: tx}
}

func (r *accountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		INSERT INTO accounts (email, password_hash, tokens)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Email, params.PasswordHash, params.Tokens)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("Account").WithCause(err)
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts WHERE email = $1
	`, email)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) Debit(ctx context.Context, email string, amount int64) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `
		UPDATE accounts SET
			tokens = tokens - $2,
			updated_at = $3
		WHERE email = $1 AND tokens >= $2
		RETURNING tokens
	`, email, amount, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.InsufficientTokens()
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *accountRepo) Credit(ctx context.Context, email string, amount int64) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `
		UPDATE accounts SET
			tokens = tokens + $2,
			updated_at = $3
		WHERE email = $1
		RETURNING tokens
	`, email, amount, time.Now())
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.NotFound("Account")
	}
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *accountRepo) ListBalances(ctx context.Context) ([]model.AccountBalance, error) {
	var balances []model.AccountBalance
	err := r.db.SelectContext(ctx, &balances, `
		SELECT email, tokens FROM accounts ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	return balances, nil
}
