package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/numanubhani/finance2/internal/config"
)

func ConnectPostgres(cfg *config.Config, log *zap.SugaredLogger) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost,
		cfg.PostgresPort,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresDB,
		cfg.PostgresSSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db, log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Infow("postgres connection established", "database", cfg.PostgresDB)
	return db, nil
}

// Migrate creates the schema. Every statement is idempotent, so running it
// against an existing database is safe.
func Migrate(db *sql.DB, log *zap.SugaredLogger) error {
	log.Info("running migrations")

	migrations := []string{
		// Users (auth collaborator)
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Banks: one bank name per user
		`CREATE TABLE IF NOT EXISTS banks (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_banks_user_id ON banks(user_id)`,

		// Accounts: one account number per bank
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGSERIAL PRIMARY KEY,
			bank_id BIGINT NOT NULL REFERENCES banks(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			number VARCHAR(30) NOT NULL,
			balance DECIMAL(15, 2) NOT NULL DEFAULT 0.00,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (bank_id, number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_bank_id ON accounts(bank_id)`,

		// Transactions: immutable history, amounts store the signed effect
		// on the primary account
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			reference VARCHAR(50) UNIQUE NOT NULL,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			account_id BIGINT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			amount DECIMAL(15, 2) NOT NULL,
			type VARCHAR(20) NOT NULL,
			description VARCHAR(255) NOT NULL DEFAULT '',
			to_account_id BIGINT REFERENCES accounts(id) ON DELETE CASCADE,
			recipient_name VARCHAR(100),
			recipient_details VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info("migrations completed")
	return nil
}
