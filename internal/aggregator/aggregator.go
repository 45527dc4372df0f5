package aggregator

import (
	"trybud/internal/leveling"
	"trybud/internal/model"
)

// NextLevelScore is the dashboard milestone progress is measured against. It is
// not tied to a stage boundary.
const NextLevelScore = 3500

// Aggregate folds a user's quests and session bonus into dashboard metrics.
// Terminal quests still count toward points and activity.
func Aggregate(quests []*model.Quest, bonusPoints int) model.DerivedMetrics {
	activity := 0
	for _, q := range quests {
		if q == nil {
			continue
		}
		activity += q.DaysCompleted
	}

	total := leveling.PointsForQuestSet(quests) + bonusPoints

	toNext := NextLevelScore - total
	if toNext < 0 {
		toNext = 0
	}

	return model.DerivedMetrics{
		TotalPoints:       total,
		ActivityCount:     activity,
		ProgressPercent:   100 * float64(total) / NextLevelScore,
		PointsToNextLevel: toNext,
		BuddyStage:        leveling.StageFor(total),
	}
}

// Actionable returns the quests a user can still log activity against.
func Actionable(quests []*model.Quest) []*model.Quest {
	out := make([]*model.Quest, 0, len(quests))
	for _, q := range quests {
		if q != nil && q.Status == model.StatusActive {
			out = append(out, q)
		}
	}
	return out
}
