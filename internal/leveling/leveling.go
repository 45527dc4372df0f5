package leveling

import (
	"errors"
	"fmt"

	"trybud/internal/model"
)

const (
	PointsPerDay = 50

	MinStage = 0
	MaxStage = 5
)

var ErrUnknownStage = errors.New("unknown buddy stage")

// stageThresholds[i] is the minimum points for stage i.
var stageThresholds = [...]int{0, 500, 1000, 2000, 3500, 5000}

var stageLabels = [...]string{
	"Job Seeker",
	"Getting Started",
	"Rising Star",
	"Professional",
	"Executive",
	"Wealthy Entrepreneur",
}

// PointsForQuestSet sums PointsPerDay for every completed day across quests,
// whatever their status. Bonus points are added by the caller.
func PointsForQuestSet(quests []*model.Quest) int {
	total := 0
	for _, q := range quests {
		if q == nil {
			continue
		}
		total += q.DaysCompleted * PointsPerDay
	}
	return total
}

// StageFor maps points to a buddy stage. Negative input is treated as zero.
func StageFor(points int) int {
	stage := MinStage
	for i, threshold := range stageThresholds {
		if points >= threshold {
			stage = i
		}
	}
	return stage
}

func StageLabel(stage int) (string, error) {
	if stage < MinStage || stage > MaxStage {
		return "", fmt.Errorf("%w: %d", ErrUnknownStage, stage)
	}
	return stageLabels[stage], nil
}

// StageThreshold returns the minimum points for a stage.
func StageThreshold(stage int) (int, error) {
	if stage < MinStage || stage > MaxStage {
		return 0, fmt.Errorf("%w: %d", ErrUnknownStage, stage)
	}
	return stageThresholds[stage], nil
}

func StageIncreased(prev, next int) bool {
	return next > prev
}
