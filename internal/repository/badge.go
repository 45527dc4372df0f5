package repository

import (
	"context"
	"fmt"
	"time"

	"trybud/internal/catalog"
	"trybud/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const perfectAttendanceRarity = 50

type badge struct {
	Owner     string `db:"owner"`
	QuestID   string `db:"quest_id"`
	Kind      string `db:"kind"`
	Tier      string `db:"tier"`
	Rarity    int    `db:"rarity"`
	AwardedAt int64  `db:"awarded_at"`
}

// completionBadges lists the badges a completed quest earns. Rarity of the
// completion badge is the quest length in days.
func completionBadges(q *quest, awardedAt int64) ([]badge, error) {
	tier, err := catalog.TierFor(q.DurationDays)
	if err != nil {
		return nil, err
	}

	out := []badge{{
		Owner:     q.Owner,
		QuestID:   q.QuestID,
		Kind:      string(model.BadgeQuestCompletion),
		Tier:      tier.Badge,
		Rarity:    q.DurationDays,
		AwardedAt: awardedAt,
	}}
	if q.DaysCompleted >= q.DurationDays {
		out = append(out, badge{
			Owner:     q.Owner,
			QuestID:   q.QuestID,
			Kind:      string(model.BadgePerfectAttendance),
			Tier:      tier.Badge,
			Rarity:    perfectAttendanceRarity,
			AwardedAt: awardedAt,
		})
	}
	return out, nil
}

func (r *Repository) insertBadges(ctx context.Context, tx *sqlx.Tx, badges []badge) error {
	if len(badges) == 0 {
		return nil
	}

	builder := squirrel.
		Insert("badges").
		Columns("owner", "quest_id", "kind", "tier", "rarity", "awarded_at")
	for _, b := range badges {
		builder = builder.Values(b.Owner, b.QuestID, b.Kind, b.Tier, b.Rarity, b.AwardedAt)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (quest_id, kind) DO NOTHING").
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build badge insert query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to award badges: %w", err)
	}
	return nil
}

// ListBadges returns a wallet's badges in award order.
func (r *Repository) ListBadges(ctx context.Context, owner model.Address) (*model.BadgeCollection, error) {
	query, args, err := squirrel.
		Select("owner", "quest_id", "kind", "tier", "rarity", "awarded_at").
		From("badges").
		Where(squirrel.Eq{"owner": string(owner)}).
		OrderBy("badge_seq").
		PlaceholderFormat(r.ph).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []badge
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}

	out := &model.BadgeCollection{
		Owner:  owner,
		Badges: make([]model.Badge, 0, len(rows)),
	}
	for _, b := range rows {
		out.Badges = append(out.Badges, model.Badge{
			Owner:     model.Address(b.Owner),
			QuestID:   model.QuestID(b.QuestID),
			Kind:      model.BadgeKind(b.Kind),
			Tier:      b.Tier,
			Rarity:    b.Rarity,
			AwardedAt: time.Unix(b.AwardedAt, 0).UTC(),
		})
		out.TotalScore += b.Rarity
	}
	return out, nil
}
