package repository

import (
	"context"
	"fmt"

	"trybud/pkg/logger"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	poolCommunity = "community"
	poolYield     = "yield"
)

// seqColumn is an auto-assigned, strictly increasing primary key. Rows are
// listed in its order so concurrent inserts never share a position.
func seqColumn(driver string) string {
	if driver == DriverSQLite {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "BIGSERIAL PRIMARY KEY"
}

func schema(driver string) []string {
	seq := seqColumn(driver)
	return []string{
		`CREATE TABLE IF NOT EXISTS quests (
			created_seq    ` + seq + `,
			quest_id       TEXT NOT NULL UNIQUE,
			owner          TEXT NOT NULL,
			quest_type     TEXT NOT NULL,
			daily_target   INTEGER NOT NULL,
			duration_days  INTEGER NOT NULL,
			grace_days     INTEGER NOT NULL,
			stake_amount   BIGINT NOT NULL,
			status         TEXT NOT NULL,
			days_completed INTEGER NOT NULL DEFAULT 0,
			yield_accrued  BIGINT NOT NULL DEFAULT 0,
			reward         BIGINT NOT NULL DEFAULT 0,
			start_time     BIGINT NOT NULL,
			end_time       BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS quests_owner_idx ON quests (owner, created_seq)`,
		`CREATE TABLE IF NOT EXISTS activity_logs (
			quest_id           TEXT NOT NULL,
			day                INTEGER NOT NULL,
			activities_count   INTEGER NOT NULL,
			verification_token TEXT NOT NULL,
			logged_at          BIGINT NOT NULL,
			PRIMARY KEY (quest_id, day)
		)`,
		`CREATE TABLE IF NOT EXISTS balances (
			owner  TEXT PRIMARY KEY,
			amount BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pools (
			pool_name TEXT PRIMARY KEY,
			amount    BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS badges (
			badge_seq  ` + seq + `,
			owner      TEXT NOT NULL,
			quest_id   TEXT NOT NULL,
			kind       TEXT NOT NULL,
			tier       TEXT NOT NULL,
			rarity     INTEGER NOT NULL,
			awarded_at BIGINT NOT NULL,
			UNIQUE (quest_id, kind)
		)`,
		`CREATE INDEX IF NOT EXISTS badges_owner_idx ON badges (owner, badge_seq)`,
	}
}

// Migrate creates the ledger tables and seeds the stake pools. It is safe to
// run repeatedly.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		stmts := schema(r.driver)
		for i, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
			}
		}

		for _, pool := range []string{poolCommunity, poolYield} {
			query, args, err := squirrel.
				Insert("pools").
				Columns("pool_name", "amount").
				Values(pool, 0).
				Suffix("ON CONFLICT (pool_name) DO NOTHING").
				PlaceholderFormat(r.ph).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build pool seed query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to seed %s pool: %w", pool, err)
			}
		}

		logger.Logger().Info("Ledger schema migrated", zap.Int("statements", len(stmts)))
		return nil
	})
}
