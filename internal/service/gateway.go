package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/modelmeter/modelmeter/internal/audit"
	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/repository"
)

// Gateway gates every paid operation: it debits the caller's balance,
// runs the operation, and refunds on failure. It is the single place
// pricing is applied, so train and predict cannot drift apart.
type Gateway struct {
	ledger repository.AccountRepository
	usage  repository.UsageLogRepository
}

func NewGateway(ledger repository.AccountRepository, usage repository.UsageLogRepository) *Gateway {
	return &Gateway{ledger: ledger, usage: usage}
}

// Charge debits price from the account, then runs fn. If fn fails the
// debit is refunded best-effort, so a transient downstream error never
// permanently costs the caller tokens. On success the charged action
// is recorded in the usage log. Returns the balance observed right
// after the debit.
func (g *Gateway) Charge(ctx context.Context, email, action string, modelName *string, price int64, fn func(context.Context) error) (int64, error) {
	balance, err := g.ledger.Debit(ctx, email, price)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeInsufficientTokens) {
			audit.Log(ctx, audit.Event{
				Type:   audit.EventDebitRejected,
				Email:  email,
				Amount: price,
				Details: map[string]interface{}{
					"action": action,
				},
			})
			return 0, err
		}
		return 0, apperrors.Database("debit failed", err)
	}

	audit.Log(ctx, audit.Event{
		Type:   audit.EventDebit,
		Email:  email,
		Amount: price,
		Details: map[string]interface{}{
			"action":  action,
			"balance": balance,
		},
	})

	if err := fn(ctx); err != nil {
		g.refund(ctx, email, action, price)
		return 0, err
	}

	if recErr := g.usage.Record(ctx, email, action, modelName); recErr != nil {
		// The operation already succeeded and was paid for; a missing
		// usage row only skews summaries.
		log.Warn().Err(recErr).Str("email", email).Str("action", action).Msg("failed to record usage")
	}

	return balance, nil
}

func (g *Gateway) refund(ctx context.Context, email, action string, price int64) {
	if _, err := g.ledger.Credit(ctx, email, price); err != nil {
		log.Error().Err(err).Str("email", email).Int64("amount", price).Msg("refund failed")
		audit.Log(ctx, audit.Event{
			Type:   audit.EventRefundFailure,
			Email:  email,
			Amount: price,
			Details: map[string]interface{}{
				"action": action,
				"error":  err,
			},
		})
		return
	}
	audit.Log(ctx, audit.Event{
		Type:   audit.EventRefund,
		Email:  email,
		Amount: price,
		Details: map[string]interface{}{
			"action": action,
		},
	})
}
