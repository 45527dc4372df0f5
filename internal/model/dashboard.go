package model

type DerivedMetrics struct {
	TotalPoints       int
	ActivityCount     int
	ProgressPercent   float64
	PointsToNextLevel int
	BuddyStage        int
}

type Dashboard struct {
	Owner       Address
	Quests      []*Quest
	Actionable  []*Quest
	BonusPoints int
	Metrics     DerivedMetrics
	StageUp     bool
}
