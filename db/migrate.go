package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username VARCHAR(80) NOT NULL UNIQUE,
	email VARCHAR(120) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	full_name VARCHAR(100) NOT NULL,
	phone VARCHAR(20) NOT NULL DEFAULT '',
	role VARCHAR(20) NOT NULL DEFAULT 'user',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	failed_login_attempts INT NOT NULL DEFAULT 0,
	locked_until TIMESTAMPTZ,
	last_login TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS accounts (
	id UUID PRIMARY KEY,
	account_number CHAR(10) NOT NULL UNIQUE,
	user_id UUID NOT NULL REFERENCES users(id),
	account_type VARCHAR(20) NOT NULL,
	balance NUMERIC(15,2) NOT NULL DEFAULT 0.00 CHECK (balance >= 0),
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- At most one active account per (owner, type).
CREATE UNIQUE INDEX IF NOT EXISTS accounts_owner_type_active_key
	ON accounts (user_id, account_type) WHERE is_active;

CREATE TABLE IF NOT EXISTS transactions (
	id UUID PRIMARY KEY,
	transaction_type VARCHAR(20) NOT NULL,
	amount NUMERIC(15,2) NOT NULL CHECK (amount > 0),
	description VARCHAR(255) NOT NULL DEFAULT '',
	from_account_id UUID REFERENCES accounts(id),
	to_account_id UUID REFERENCES accounts(id),
	user_id UUID NOT NULL REFERENCES users(id),
	ip_address VARCHAR(45) NOT NULL DEFAULT '',
	user_agent VARCHAR(255) NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS transactions_from_account_idx ON transactions (from_account_id);
CREATE INDEX IF NOT EXISTS transactions_to_account_idx ON transactions (to_account_id);
CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS login_attempts (
	id UUID PRIMARY KEY,
	ip_address VARCHAR(45) NOT NULL,
	username VARCHAR(80) NOT NULL DEFAULT '',
	success BOOLEAN NOT NULL,
	user_agent VARCHAR(255) NOT NULL DEFAULT '',
	attempted_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS login_attempts_ip_idx ON login_attempts (ip_address, attempted_at DESC);
`

// Migrate applies the schema. Statements are idempotent so this is safe to
// run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
