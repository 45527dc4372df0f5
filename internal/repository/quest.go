package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"trybud/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	secondsPerDay = 24 * 60 * 60

	// yieldAPYBps is the simulated annual yield paid on successful stakes.
	yieldAPYBps = 500
)

type quest struct {
	QuestID       string `db:"quest_id"`
	Owner         string `db:"owner"`
	QuestType     string `db:"quest_type"`
	DailyTarget   int    `db:"daily_target"`
	DurationDays  int    `db:"duration_days"`
	GraceDays     int    `db:"grace_days"`
	StakeAmount   int64  `db:"stake_amount"`
	Status        string `db:"status"`
	DaysCompleted int    `db:"days_completed"`
	YieldAccrued  int64  `db:"yield_accrued"`
	Reward        int64  `db:"reward"`
	StartTime     int64  `db:"start_time"`
	EndTime       int64  `db:"end_time"`
}

var questColumns = []string{
	"quest_id",
	"owner",
	"quest_type",
	"daily_target",
	"duration_days",
	"grace_days",
	"stake_amount",
	"status",
	"days_completed",
	"yield_accrued",
	"reward",
	"start_time",
	"end_time",
}

// toModel is the single place a stored status becomes a model.QuestStatus.
func (q *quest) toModel() (*model.Quest, error) {
	status, err := model.ParseQuestStatus(q.Status)
	if err != nil {
		return nil, fmt.Errorf("quest %s: %w", q.QuestID, err)
	}
	questType, err := model.ParseQuestType(q.QuestType)
	if err != nil {
		return nil, fmt.Errorf("quest %s: %w", q.QuestID, err)
	}

	return &model.Quest{
		ID:            model.QuestID(q.QuestID),
		Owner:         model.Address(q.Owner),
		Type:          questType,
		DailyTarget:   q.DailyTarget,
		DurationDays:  q.DurationDays,
		GraceDays:     q.GraceDays,
		StakeAmount:   q.StakeAmount,
		Status:        status,
		DaysCompleted: q.DaysCompleted,
		YieldAccrued:  q.YieldAccrued,
		Reward:        q.Reward,
		StartTime:     time.Unix(q.StartTime, 0).UTC(),
		EndTime:       time.Unix(q.EndTime, 0).UTC(),
	}, nil
}

func (r *Repository) CreateQuest(ctx context.Context, owner model.Address, params model.QuestParams) (model.QuestID, error) {
	id := uuid.New().String()
	start := r.now().UTC().Unix()
	end := start + int64(params.DurationDays)*secondsPerDay

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := r.debitBalance(ctx, tx, owner, params.StakeAmount); err != nil {
			return err
		}
		if err := r.addToPool(ctx, tx, poolYield, params.StakeAmount); err != nil {
			return err
		}

		query, args, err := squirrel.
			Insert("quests").
			SetMap(map[string]interface{}{
				"quest_id":       id,
				"owner":          string(owner),
				"quest_type":     params.Type.String(),
				"daily_target":   params.DailyTarget,
				"duration_days":  params.DurationDays,
				"grace_days":     params.GraceDays,
				"stake_amount":   params.StakeAmount,
				"status":         model.StatusActive.String(),
				"days_completed": 0,
				"yield_accrued":  0,
				"reward":         0,
				"start_time":     start,
				"end_time":       end,
			}).
			PlaceholderFormat(r.ph).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build quest insert query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert quest: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return model.QuestID(id), nil
}

func (r *Repository) ListQuestIDs(ctx context.Context, owner model.Address) ([]model.QuestID, error) {
	query, args, err := squirrel.
		Select("quest_id").
		From("quests").
		Where(squirrel.Eq{"owner": string(owner)}).
		OrderBy("created_seq").
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}

	out := make([]model.QuestID, len(ids))
	for i, id := range ids {
		out[i] = model.QuestID(id)
	}
	return out, nil
}

func (r *Repository) GetQuest(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	q, err := r.getQuest(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return q.toModel()
}

func (r *Repository) getQuest(ctx context.Context, db sqlx.QueryerContext, id model.QuestID) (*quest, error) {
	query, args, err := squirrel.
		Select(questColumns...).
		From("quests").
		Where(squirrel.Eq{"quest_id": string(id)}).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return nil, err
	}

	var q quest
	if err := sqlx.GetContext(ctx, db, &q, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quest: %w", err)
	}
	return &q, nil
}

// getActiveQuest loads a quest inside tx and requires it to be Active.
func (r *Repository) getActiveQuest(ctx context.Context, tx *sqlx.Tx, id model.QuestID) (*quest, error) {
	q, err := r.getQuest(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	status, err := model.ParseQuestStatus(q.Status)
	if err != nil {
		return nil, err
	}
	if status != model.StatusActive {
		return nil, ErrQuestNotActive
	}
	return q, nil
}

// LogActivity records one log per quest day and grants one day of credit.
func (r *Repository) LogActivity(ctx context.Context, entry model.ActivityLogEntry) (*model.Quest, error) {
	// the ledger clock decides the day, not the caller's timestamp
	now := r.now().UTC()

	var updated *quest
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		q, err := r.getActiveQuest(ctx, tx, entry.QuestID)
		if err != nil {
			return err
		}

		day := (now.Unix() - q.StartTime) / secondsPerDay
		if day < 0 || day >= int64(q.DurationDays) {
			return ErrQuestExpired
		}

		countQuery, countArgs, err := squirrel.
			Select("COUNT(*)").
			From("activity_logs").
			Where(squirrel.Eq{"quest_id": q.QuestID, "day": day}).
			PlaceholderFormat(r.ph).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build log lookup query: %w", err)
		}
		var logged int
		if err := tx.GetContext(ctx, &logged, countQuery, countArgs...); err != nil {
			return fmt.Errorf("failed to look up daily log: %w", err)
		}
		if logged > 0 {
			return ErrAlreadyLoggedToday
		}

		insertQuery, insertArgs, err := squirrel.
			Insert("activity_logs").
			SetMap(map[string]interface{}{
				"quest_id":           q.QuestID,
				"day":                day,
				"activities_count":   entry.ActivitiesCount,
				"verification_token": entry.VerificationToken,
				"logged_at":          now.Unix(),
			}).
			PlaceholderFormat(r.ph).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build log insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("failed to insert daily log: %w", err)
		}

		updateQuery, updateArgs, err := squirrel.
			Update("quests").
			Set("days_completed", squirrel.Expr("days_completed + 1")).
			Where(squirrel.Eq{"quest_id": q.QuestID}).
			Where(squirrel.Expr("days_completed < duration_days")).
			PlaceholderFormat(r.ph).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build progress update query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
			return fmt.Errorf("failed to update quest progress: %w", err)
		}

		updated, err = r.getQuest(ctx, tx, entry.QuestID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated.toModel()
}

// SettleQuest resolves an expired quest. Success returns the stake plus yield
// and a share of the community pool, and awards badges; failure forfeits the
// stake to the pool.
func (r *Repository) SettleQuest(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	now := r.now().UTC().Unix()

	var settled *quest
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		q, err := r.getActiveQuest(ctx, tx, id)
		if err != nil {
			return err
		}
		if now < q.EndTime {
			return ErrQuestNotFinished
		}

		status := model.StatusFailed
		var yield, reward int64
		if q.DaysCompleted >= q.DurationDays-q.GraceDays {
			status = model.StatusCompleted

			yieldPool, err := r.poolAmount(ctx, tx, poolYield)
			if err != nil {
				return err
			}
			// yield is paid out of the pool and never drives it negative
			yield = min(YieldShare(q.StakeAmount, q.DurationDays), max(yieldPool-q.StakeAmount, 0))
			if err := r.addToPool(ctx, tx, poolYield, -(q.StakeAmount + yield)); err != nil {
				return err
			}

			community, err := r.poolAmount(ctx, tx, poolCommunity)
			if err != nil {
				return err
			}
			bonus := community / 100
			if bonus > 0 {
				if err := r.addToPool(ctx, tx, poolCommunity, -bonus); err != nil {
					return err
				}
			}

			reward = q.StakeAmount + yield + bonus
			if err := r.creditBalance(ctx, tx, model.Address(q.Owner), reward); err != nil {
				return err
			}

			badges, err := completionBadges(q, now)
			if err != nil {
				return err
			}
			if err := r.insertBadges(ctx, tx, badges); err != nil {
				return err
			}
		} else {
			if err := r.addToPool(ctx, tx, poolYield, -q.StakeAmount); err != nil {
				return err
			}
			if err := r.addToPool(ctx, tx, poolCommunity, q.StakeAmount); err != nil {
				return err
			}
		}

		if err := r.finishQuest(ctx, tx, id, status, yield, reward); err != nil {
			return err
		}

		settled, err = r.getQuest(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return settled.toModel()
}

// CancelQuest abandons an active quest. The stake is forfeited like a failure.
func (r *Repository) CancelQuest(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	var cancelled *quest
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		q, err := r.getActiveQuest(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := r.addToPool(ctx, tx, poolYield, -q.StakeAmount); err != nil {
			return err
		}
		if err := r.addToPool(ctx, tx, poolCommunity, q.StakeAmount); err != nil {
			return err
		}
		if err := r.finishQuest(ctx, tx, id, model.StatusCancelled, 0, 0); err != nil {
			return err
		}

		cancelled, err = r.getQuest(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return cancelled.toModel()
}

func (r *Repository) finishQuest(ctx context.Context, tx *sqlx.Tx, id model.QuestID, status model.QuestStatus, yield, reward int64) error {
	query, args, err := squirrel.
		Update("quests").
		SetMap(map[string]interface{}{
			"status":        status.String(),
			"yield_accrued": yield,
			"reward":        reward,
		}).
		Where(squirrel.Eq{
			"quest_id": string(id),
			"status":   []string{model.StatusActive.String(), strconv.Itoa(int(model.StatusActive))},
		}).
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build quest status update: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update quest status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrQuestNotActive
	}
	return nil
}

// YieldShare is the simulated 5% APY yield for a stake held for durationDays,
// prorated per day.
func YieldShare(stake int64, durationDays int) int64 {
	return stake * yieldAPYBps * int64(durationDays) / (365 * 10_000)
}
