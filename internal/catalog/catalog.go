package catalog

import (
	"errors"
	"fmt"

	"trybud/internal/model"
)

const (
	MinDailyTarget = 1
	MaxDailyTarget = 10
	MaxGraceDays   = 3

	// StakeDecimals is the precision of ledger stake amounts: 1 USDC is
	// 1_000_000 units, so the tiers stake 10, 20, 50 and 100 USDC.
	StakeDecimals = 6
	stakeUnit     = 1_000_000
)

var ErrInvalidDuration = errors.New("invalid quest duration")

var tiers = []model.DurationTier{
	{DurationDays: 7, StakeAmount: 10_000_000, Label: "1 Week Sprint", Badge: "Bronze"},
	{DurationDays: 14, StakeAmount: 20_000_000, Label: "2 Week Challenge", Badge: "Silver"},
	{DurationDays: 30, StakeAmount: 50_000_000, Label: "Monthly Mission", Badge: "Gold"},
	{DurationDays: 90, StakeAmount: 100_000_000, Label: "Quarter Quest", Badge: "Platinum"},
}

var questTypeLabels = map[model.QuestType]string{
	model.JobApplications: "Job Applications",
	model.InterviewPrep:   "Interview Prep",
	model.Networking:      "Networking",
	model.SkillBuilding:   "Skill Building",
}

// Tiers returns a copy of the published duration tiers, shortest first.
func Tiers() []model.DurationTier {
	out := make([]model.DurationTier, len(tiers))
	copy(out, tiers)
	return out
}

// TierFor looks up the tier for an exact duration. There is no rounding to the
// nearest tier.
func TierFor(durationDays int) (model.DurationTier, error) {
	for _, t := range tiers {
		if t.DurationDays == durationDays {
			return t, nil
		}
	}
	return model.DurationTier{}, fmt.Errorf("%w: %d days", ErrInvalidDuration, durationDays)
}

func QuestTypes() []model.QuestType {
	return []model.QuestType{
		model.JobApplications,
		model.InterviewPrep,
		model.Networking,
		model.SkillBuilding,
	}
}

func QuestTypeLabel(t model.QuestType) string {
	if label, ok := questTypeLabels[t]; ok {
		return label
	}
	return t.String()
}

// StakeToUSDC converts smallest-unit stake amounts to whole currency.
func StakeToUSDC(amount int64) float64 {
	return float64(amount) / stakeUnit
}
