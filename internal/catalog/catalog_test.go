package catalog

import (
	"testing"

	"trybud/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name          string
		days          int
		expectedStake int64
		expectedLabel string
		expectedError error
	}{
		{name: "one week", days: 7, expectedStake: 10_000_000, expectedLabel: "1 Week Sprint"},
		{name: "two weeks", days: 14, expectedStake: 20_000_000, expectedLabel: "2 Week Challenge"},
		{name: "month", days: 30, expectedStake: 50_000_000, expectedLabel: "Monthly Mission"},
		{name: "quarter", days: 90, expectedStake: 100_000_000, expectedLabel: "Quarter Quest"},
		{name: "between tiers is not rounded", days: 21, expectedError: ErrInvalidDuration},
		{name: "zero", days: 0, expectedError: ErrInvalidDuration},
		{name: "negative", days: -7, expectedError: ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := TierFor(tt.days)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.days, tier.DurationDays)
			assert.Equal(t, tt.expectedStake, tier.StakeAmount)
			assert.Equal(t, tt.expectedLabel, tier.Label)
		})
	}
}

func TestTiersReturnsCopy(t *testing.T) {
	got := Tiers()
	require.Len(t, got, 4)
	got[0].StakeAmount = 1

	tier, err := TierFor(7)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), tier.StakeAmount)
}

func TestQuestTypeLabel(t *testing.T) {
	assert.Equal(t, "Job Applications", QuestTypeLabel(model.JobApplications))
	assert.Equal(t, "Skill Building", QuestTypeLabel(model.SkillBuilding))
	assert.Equal(t, "QuestType(9)", QuestTypeLabel(model.QuestType(9)))
	assert.Len(t, QuestTypes(), 4)
}

func TestStakeToUSDC(t *testing.T) {
	assert.InDelta(t, 20.0, StakeToUSDC(20_000_000), 1e-9)
	assert.InDelta(t, 0.5, StakeToUSDC(500_000), 1e-9)

	want := map[int]float64{7: 10, 14: 20, 30: 50, 90: 100}
	for _, tier := range Tiers() {
		assert.InDelta(t, want[tier.DurationDays], StakeToUSDC(tier.StakeAmount), 1e-9, "%d day tier", tier.DurationDays)
	}
}
