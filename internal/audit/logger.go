package audit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventAccountCreate   EventType = "account_create"
	EventLoginSuccess    EventType = "login_success"
	EventLoginFailure    EventType = "login_failure"
	EventAuthFailure     EventType = "auth_failure"
	EventTokenExpired    EventType = "token_expired"
	EventDebit           EventType = "debit"
	EventDebitRejected   EventType = "debit_rejected"
	EventRefund          EventType = "refund"
	EventRefundFailure   EventType = "refund_failure"
	EventModelTrain      EventType = "model_train"
	EventModelPredict    EventType = "model_predict"
	EventRateLimitExceed EventType = "rate_limit_exceeded"
)

type Event struct {
	Type      EventType
	Email     string
	ModelName string
	Amount    int64
	IP        string
	Details   map[string]interface{}
}

// Log emits a structured security/billing audit event. Billing events
// are the authoritative trail for debits and refunds, so they are
// always logged at info level regardless of the outcome they record.
func Log(ctx context.Context, event Event) {
	logger := log.With().
		Str("audit", "billing").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.Email != "" {
		logger = logger.With().Str("email", event.Email).Logger()
	}
	if event.ModelName != "" {
		logger = logger.With().Str("model_name", event.ModelName).Logger()
	}
	if event.Amount != 0 {
		logger = logger.With().Int64("amount", event.Amount).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	case error:
		return e.AnErr(key, v)
	default:
		return e.Interface(key, v)
	}
}
