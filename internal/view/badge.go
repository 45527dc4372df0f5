package view

import (
	"time"

	"trybud/internal/model"
)

type Badge struct {
	QuestID   string `json:"quest_id"`
	Kind      string `json:"kind"`
	Tier      string `json:"tier"`
	Label     string `json:"label"`
	Rarity    int    `json:"rarity"`
	AwardedAt string `json:"awarded_at"`
}

type BadgeCollection struct {
	Badges     []Badge `json:"badges"`
	TotalScore int     `json:"total_score"`
}

func NewBadgeCollection(c *model.BadgeCollection) BadgeCollection {
	out := BadgeCollection{
		Badges:     make([]Badge, 0, len(c.Badges)),
		TotalScore: c.TotalScore,
	}
	for _, b := range c.Badges {
		out.Badges = append(out.Badges, Badge{
			QuestID:   string(b.QuestID),
			Kind:      string(b.Kind),
			Tier:      b.Tier,
			Label:     badgeLabel(b),
			Rarity:    b.Rarity,
			AwardedAt: b.AwardedAt.Format(time.RFC3339),
		})
	}
	return out
}

func badgeLabel(b model.Badge) string {
	switch b.Kind {
	case model.BadgeQuestCompletion:
		return b.Tier + " Quest Completion"
	case model.BadgePerfectAttendance:
		return "Perfect Attendance"
	default:
		return string(b.Kind)
	}
}
