package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trybud/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Fund credits a wallet's stake balance on the ledger.
func (r *Repository) Fund(ctx context.Context, owner model.Address, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("fund amount must be positive, got %d", amount)
	}
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		return r.creditBalance(ctx, tx, owner, amount)
	})
}

// FundYieldPool adds simulated protocol returns that successful quests are
// paid yield from.
func (r *Repository) FundYieldPool(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("fund amount must be positive, got %d", amount)
	}
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		return r.addToPool(ctx, tx, poolYield, amount)
	})
}

func (r *Repository) Balance(ctx context.Context, owner model.Address) (int64, error) {
	query, args, err := squirrel.
		Select("amount").
		From("balances").
		Where(squirrel.Eq{"owner": string(owner)}).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return 0, err
	}

	var amount int64
	if err := r.db.GetContext(ctx, &amount, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return amount, nil
}

func (r *Repository) PoolStats(ctx context.Context) (*model.PoolStats, error) {
	query, args, err := squirrel.
		Select("pool_name", "amount").
		From("pools").
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Name   string `db:"pool_name"`
		Amount int64  `db:"amount"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get pool stats: %w", err)
	}

	stats := &model.PoolStats{}
	for _, row := range rows {
		switch row.Name {
		case poolCommunity:
			stats.CommunityPool = row.Amount
		case poolYield:
			stats.YieldPool = row.Amount
		}
	}
	return stats, nil
}

func (r *Repository) debitBalance(ctx context.Context, tx *sqlx.Tx, owner model.Address, amount int64) error {
	query, args, err := squirrel.
		Update("balances").
		Set("amount", squirrel.Expr("amount - ?", amount)).
		Where(squirrel.Eq{"owner": string(owner)}).
		Where(squirrel.GtOrEq{"amount": amount}).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build balance debit query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInsufficientStake
	}
	return nil
}

func (r *Repository) creditBalance(ctx context.Context, tx *sqlx.Tx, owner model.Address, amount int64) error {
	query, args, err := squirrel.
		Insert("balances").
		Columns("owner", "amount").
		Values(string(owner), amount).
		Suffix("ON CONFLICT (owner) DO UPDATE SET amount = balances.amount + excluded.amount").
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build balance credit query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	return nil
}

func (r *Repository) poolAmount(ctx context.Context, tx *sqlx.Tx, pool string) (int64, error) {
	query, args, err := squirrel.
		Select("amount").
		From("pools").
		Where(squirrel.Eq{"pool_name": pool}).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return 0, err
	}

	var amount int64
	if err := tx.GetContext(ctx, &amount, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get %s pool: %w", pool, err)
	}
	return amount, nil
}

func (r *Repository) addToPool(ctx context.Context, tx *sqlx.Tx, pool string, delta int64) error {
	query, args, err := squirrel.
		Update("pools").
		Set("amount", squirrel.Expr("amount + ?", delta)).
		Where(squirrel.Eq{"pool_name": pool}).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build pool update query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s pool: %w", pool, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
