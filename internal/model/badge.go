package model

import "time"

type BadgeKind string

const (
	// BadgeQuestCompletion is awarded for every completed quest, in the tier of
	// the quest's duration.
	BadgeQuestCompletion BadgeKind = "QuestCompletion"
	// BadgePerfectAttendance is awarded when a completed quest missed no days.
	BadgePerfectAttendance BadgeKind = "PerfectAttendance"
)

type Badge struct {
	Owner     Address
	QuestID   QuestID
	Kind      BadgeKind
	Tier      string
	Rarity    int
	AwardedAt time.Time
}

// BadgeCollection is every badge a wallet holds with its summed rarity.
type BadgeCollection struct {
	Owner      Address
	Badges     []Badge
	TotalScore int
}
