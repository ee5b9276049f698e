package model

import (
	"time"
)

// Account is a registered user identity with a metered token balance.
// The email is the unique key and is stored lower-cased. The balance is
// only ever mutated through the ledger's conditional debit and credit.
type Account struct {
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Tokens       int64     `db:"tokens" json:"tokens"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateAccountParams struct {
	Email        string
	PasswordHash string
	Tokens       int64
}

// AccountBalance is the admin-facing projection of an account.
type AccountBalance struct {
	Email  string `db:"email" json:"email"`
	Tokens int64  `db:"tokens" json:"tokens"`
}
