// Package view turns engine output into display-ready models. Colors, images
// and animation belong to the client.
package view

import (
	"fmt"
	"time"

	"trybud/internal/aggregator"
	"trybud/internal/catalog"
	"trybud/internal/leveling"
	"trybud/internal/model"
)

type Buddy struct {
	Stage         int    `json:"stage"`
	Label         string `json:"label"`
	Celebrate     bool   `json:"celebrate"`
	NextStage     *int   `json:"next_stage,omitempty"`
	NextThreshold *int   `json:"next_threshold,omitempty"`
}

type QuestCard struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	TypeLabel  string  `json:"type_label"`
	Status     string  `json:"status"`
	Progress   string  `json:"progress"`
	Badge      string  `json:"badge,omitempty"`
	TierLabel  string  `json:"tier_label,omitempty"`
	StakeUSDC  float64 `json:"stake_usdc"`
	CanLog     bool    `json:"can_log"`
	EndsAt     string  `json:"ends_at,omitempty"`
	RewardUSDC float64 `json:"reward_usdc,omitempty"`
}

type Activity struct {
	QuestID string `json:"quest_id"`
	Day     int    `json:"day"`
	Label   string `json:"label"`
	Points  int    `json:"points"`
}

type Dashboard struct {
	Points          int         `json:"points"`
	BonusPoints     int         `json:"bonus_points"`
	ActivityCount   int         `json:"activity_count"`
	NextLevelScore  int         `json:"next_level_score"`
	ProgressPercent float64     `json:"progress_percent"`
	ProgressBar     float64     `json:"progress_bar"`
	PointsToGo      int         `json:"points_to_go"`
	ProgressMessage string      `json:"progress_message"`
	Buddy           Buddy       `json:"buddy"`
	Quests          []QuestCard `json:"quests"`
	Activities      []Activity  `json:"activities"`
}

func NewDashboard(d *model.Dashboard) (*Dashboard, error) {
	m := d.Metrics

	buddy, err := NewBuddy(m.BuddyStage, d.StageUp)
	if err != nil {
		return nil, err
	}

	out := &Dashboard{
		Points:          m.TotalPoints,
		BonusPoints:     d.BonusPoints,
		ActivityCount:   m.ActivityCount,
		NextLevelScore:  aggregator.NextLevelScore,
		ProgressPercent: m.ProgressPercent,
		ProgressBar:     clamp(m.ProgressPercent, 0, 100),
		PointsToGo:      m.PointsToNextLevel,
		ProgressMessage: progressMessage(m.PointsToNextLevel),
		Buddy:           *buddy,
		Quests:          make([]QuestCard, 0, len(d.Actionable)),
		Activities:      activities(d.Quests),
	}
	for _, q := range d.Actionable {
		out.Quests = append(out.Quests, NewQuestCard(q))
	}
	return out, nil
}

func NewBuddy(stage int, celebrate bool) (*Buddy, error) {
	label, err := leveling.StageLabel(stage)
	if err != nil {
		return nil, err
	}

	b := &Buddy{Stage: stage, Label: label, Celebrate: celebrate}
	if stage < leveling.MaxStage {
		next := stage + 1
		threshold, err := leveling.StageThreshold(next)
		if err != nil {
			return nil, err
		}
		b.NextStage = &next
		b.NextThreshold = &threshold
	}
	return b, nil
}

func NewQuestCard(q *model.Quest) QuestCard {
	card := QuestCard{
		ID:         string(q.ID),
		Type:       q.Type.String(),
		TypeLabel:  catalog.QuestTypeLabel(q.Type),
		Status:     q.Status.String(),
		Progress:   fmt.Sprintf("%d/%d days • %d/day", q.DaysCompleted, q.DurationDays, q.DailyTarget),
		StakeUSDC:  catalog.StakeToUSDC(q.StakeAmount),
		CanLog:     q.Status == model.StatusActive && q.RemainingDays() > 0,
		RewardUSDC: catalog.StakeToUSDC(q.Reward),
	}
	if tier, err := catalog.TierFor(q.DurationDays); err == nil {
		card.Badge = tier.Badge
		card.TierLabel = tier.Label
	}
	if !q.EndTime.IsZero() {
		card.EndsAt = q.EndTime.Format(time.RFC3339)
	}
	return card
}

// activities lists one feed entry per completed day across every quest.
func activities(quests []*model.Quest) []Activity {
	out := make([]Activity, 0)
	for _, q := range quests {
		if q == nil {
			continue
		}
		label := catalog.QuestTypeLabel(q.Type)
		for day := 1; day <= q.DaysCompleted; day++ {
			out = append(out, Activity{
				QuestID: string(q.ID),
				Day:     day,
				Label:   fmt.Sprintf("%s, day %d", label, day),
				Points:  leveling.PointsPerDay,
			})
		}
	}
	return out
}

func progressMessage(toGo int) string {
	if toGo > 0 {
		return fmt.Sprintf("%d pts to go!", toGo)
	}
	return "Level Up!"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
