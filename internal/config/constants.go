package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const RetentionJobInterval = 1 * time.Hour

// Default rate limiting
const DefaultRateLimitPerMin = 60

// Token pricing policy. Enforced exactly; the spread between the
// registration grant and operation prices is a product decision,
// not a core invariant.
const (
	RegistrationGrant = 15
	LoginBonus        = 5
	TrainPrice        = 1
	PredictPrice      = 5
)
