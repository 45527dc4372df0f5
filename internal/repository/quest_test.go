package repository

import (
	"context"
	"testing"
	"time"

	"trybud/internal/catalog"
	"trybud/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwner = model.Address("GTESTOWNER")
	day       = 24 * time.Hour
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRepository(t *testing.T) (*Repository, *testClock) {
	t.Helper()

	clock := &testClock{t: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	repo, err := New(Config{Driver: DriverSQLite, DSN: ":memory:"}, WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.Migrate(context.Background()))
	return repo, clock
}

const yieldReserve int64 = 1_000_000

func weekParams() model.QuestParams {
	return model.QuestParams{
		Type:         model.JobApplications,
		DailyTarget:  3,
		DurationDays: 7,
		GraceDays:    1,
		StakeAmount:  10_000_000,
	}
}

func TestRepository_MigrateIsIdempotent(t *testing.T) {
	repo, _ := newTestRepository(t)
	require.NoError(t, repo.Migrate(context.Background()))

	stats, err := repo.PoolStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &model.PoolStats{}, stats)
}

func TestRepository_CreateQuest(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)

	_, err := repo.CreateQuest(ctx, testOwner, weekParams())
	assert.ErrorIs(t, err, ErrInsufficientStake)

	ids, err := repo.ListQuestIDs(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.Fund(ctx, testOwner, 25_000_000))

	first, err := repo.CreateQuest(ctx, testOwner, weekParams())
	require.NoError(t, err)
	second, err := repo.CreateQuest(ctx, testOwner, weekParams())
	require.NoError(t, err)
	_, err = repo.CreateQuest(ctx, testOwner, weekParams())
	assert.ErrorIs(t, err, ErrInsufficientStake)

	ids, err = repo.ListQuestIDs(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, []model.QuestID{first, second}, ids)

	balance, err := repo.Balance(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), balance)

	stats, err := repo.PoolStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20_000_000), stats.YieldPool)

	quest, err := repo.GetQuest(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, testOwner, quest.Owner)
	assert.Equal(t, model.JobApplications, quest.Type)
	assert.Equal(t, model.StatusActive, quest.Status)
	assert.Equal(t, 3, quest.DailyTarget)
	assert.Equal(t, 7, quest.DurationDays)
	assert.Equal(t, 1, quest.GraceDays)
	assert.Equal(t, int64(10_000_000), quest.StakeAmount)
	assert.Equal(t, 0, quest.DaysCompleted)
	assert.Equal(t, clock.Now(), quest.StartTime)
	assert.Equal(t, clock.Now().Add(7*day), quest.EndTime)

	_, err = repo.GetQuest(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_LogActivity(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)
	require.NoError(t, repo.Fund(ctx, testOwner, 10_000_000))

	id, err := repo.CreateQuest(ctx, testOwner, weekParams())
	require.NoError(t, err)

	entry := model.ActivityLogEntry{QuestID: id, ActivitiesCount: 1, VerificationToken: "proof-1"}

	quest, err := repo.LogActivity(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, 1, quest.DaysCompleted)

	_, err = repo.LogActivity(ctx, entry)
	assert.ErrorIs(t, err, ErrAlreadyLoggedToday)

	quest, err = repo.GetQuest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, quest.DaysCompleted, "rejected log leaves progress unchanged")

	for i := 1; i < 7; i++ {
		clock.Advance(day)
		quest, err = repo.LogActivity(ctx, entry)
		require.NoError(t, err)
		assert.Equal(t, i+1, quest.DaysCompleted)
	}

	clock.Advance(day)
	_, err = repo.LogActivity(ctx, entry)
	assert.ErrorIs(t, err, ErrQuestExpired)

	_, err = repo.LogActivity(ctx, model.ActivityLogEntry{QuestID: "missing", ActivitiesCount: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_SettleQuest(t *testing.T) {
	tests := []struct {
		name           string
		daysLogged     int
		expectedStatus model.QuestStatus
	}{
		{name: "all days", daysLogged: 7, expectedStatus: model.StatusCompleted},
		{name: "within grace", daysLogged: 6, expectedStatus: model.StatusCompleted},
		{name: "beyond grace", daysLogged: 5, expectedStatus: model.StatusFailed},
		{name: "nothing logged", daysLogged: 0, expectedStatus: model.StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, clock := newTestRepository(t)
			require.NoError(t, repo.Fund(ctx, testOwner, 10_000_000))
			require.NoError(t, repo.FundYieldPool(ctx, yieldReserve))

			id, err := repo.CreateQuest(ctx, testOwner, weekParams())
			require.NoError(t, err)

			for i := 0; i < tt.daysLogged; i++ {
				_, err := repo.LogActivity(ctx, model.ActivityLogEntry{QuestID: id, ActivitiesCount: 3, VerificationToken: "t"})
				require.NoError(t, err)
				clock.Advance(day)
			}

			clock.t = clock.t.Add(-time.Duration(tt.daysLogged) * day)
			_, err = repo.SettleQuest(ctx, id)
			assert.ErrorIs(t, err, ErrQuestNotFinished)

			clock.Advance(7 * day)
			quest, err := repo.SettleQuest(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, quest.Status)

			stats, err := repo.PoolStats(ctx)
			require.NoError(t, err)

			balance, err := repo.Balance(ctx, testOwner)
			require.NoError(t, err)

			badges, err := repo.ListBadges(ctx, testOwner)
			require.NoError(t, err)

			if tt.expectedStatus == model.StatusCompleted {
				expectedYield := YieldShare(10_000_000, 7)
				assert.Equal(t, expectedYield, quest.YieldAccrued)
				assert.Equal(t, 10_000_000+expectedYield, quest.Reward)
				assert.Equal(t, quest.Reward, balance)
				assert.Equal(t, yieldReserve-expectedYield, stats.YieldPool, "yield comes out of the pool")
				assert.Equal(t, int64(0), stats.CommunityPool)
				assert.NotEmpty(t, badges.Badges)
			} else {
				assert.Equal(t, int64(0), quest.Reward)
				assert.Equal(t, int64(0), balance)
				assert.Equal(t, yieldReserve, stats.YieldPool)
				assert.Equal(t, int64(10_000_000), stats.CommunityPool)
				assert.Empty(t, badges.Badges)
			}

			_, err = repo.SettleQuest(ctx, id)
			assert.ErrorIs(t, err, ErrQuestNotActive)
		})
	}
}

func TestRepository_SettleQuestPaysCommunityBonus(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)
	require.NoError(t, repo.Fund(ctx, testOwner, 20_000_000))
	require.NoError(t, repo.Fund(ctx, "GLOSER", 10_000_000))
	require.NoError(t, repo.FundYieldPool(ctx, yieldReserve))

	lost, err := repo.CreateQuest(ctx, "GLOSER", weekParams())
	require.NoError(t, err)
	won, err := repo.CreateQuest(ctx, testOwner, weekParams())
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		_, err := repo.LogActivity(ctx, model.ActivityLogEntry{QuestID: won, ActivitiesCount: 1, VerificationToken: "t"})
		require.NoError(t, err)
		clock.Advance(day)
	}

	_, err = repo.SettleQuest(ctx, lost)
	require.NoError(t, err)

	quest, err := repo.SettleQuest(ctx, won)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, quest.Status)
	assert.Equal(t, 10_000_000+YieldShare(10_000_000, 7)+100_000, quest.Reward)

	stats, err := repo.PoolStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9_900_000), stats.CommunityPool)
	assert.Equal(t, yieldReserve-YieldShare(10_000_000, 7), stats.YieldPool)
}

func TestRepository_SettleQuestYieldLimitedByPool(t *testing.T) {
	ctx := context.Background()
	repo, clock := newTestRepository(t)
	require.NoError(t, repo.Fund(ctx, testOwner, 10_000_000))

	id, err := repo.CreateQuest(ctx, testOwner, weekParams())
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		_, err := repo.LogActivity(ctx, model.ActivityLogEntry{QuestID: id, ActivitiesCount: 1, VerificationToken: "t"})
		require.NoError(t, err)
		clock.Advance(day)
	}

	quest, err := repo.SettleQuest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, quest.Status)
	assert.Equal(t, int64(0), quest.YieldAccrued)
	assert.Equal(t, int64(10_000_000), quest.Reward)

	stats, err := repo.PoolStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.YieldPool)

	assert.Error(t, repo.FundYieldPool(ctx, 0))
}

func TestRepository_SettleQuestAwardsBadges(t *testing.T) {
	tests := []struct {
		name          string
		params        model.QuestParams
		daysLogged    int
		expectedKinds []model.BadgeKind
		expectedScore int
	}{
		{
			name:          "perfect week",
			params:        weekParams(),
			daysLogged:    7,
			expectedKinds: []model.BadgeKind{model.BadgeQuestCompletion, model.BadgePerfectAttendance},
			expectedScore: 7 + 50,
		},
		{
			name:          "week within grace",
			params:        weekParams(),
			daysLogged:    6,
			expectedKinds: []model.BadgeKind{model.BadgeQuestCompletion},
			expectedScore: 7,
		},
		{
			name: "perfect two weeks",
			params: model.QuestParams{
				Type: model.Networking, DailyTarget: 1, DurationDays: 14, StakeAmount: 20_000_000,
			},
			daysLogged:    14,
			expectedKinds: []model.BadgeKind{model.BadgeQuestCompletion, model.BadgePerfectAttendance},
			expectedScore: 14 + 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, clock := newTestRepository(t)
			require.NoError(t, repo.Fund(ctx, testOwner, tt.params.StakeAmount))

			id, err := repo.CreateQuest(ctx, testOwner, tt.params)
			require.NoError(t, err)
			for i := 0; i < tt.daysLogged; i++ {
				_, err := repo.LogActivity(ctx, model.ActivityLogEntry{QuestID: id, ActivitiesCount: 1, VerificationToken: "t"})
				require.NoError(t, err)
				clock.Advance(day)
			}
			clock.Advance(time.Duration(tt.params.DurationDays-tt.daysLogged) * day)

			_, err = repo.SettleQuest(ctx, id)
			require.NoError(t, err)

			collection, err := repo.ListBadges(ctx, testOwner)
			require.NoError(t, err)
			assert.Equal(t, testOwner, collection.Owner)
			assert.Equal(t, tt.expectedScore, collection.TotalScore)

			tier, err := catalog.TierFor(tt.params.DurationDays)
			require.NoError(t, err)
			kinds := make([]model.BadgeKind, 0, len(collection.Badges))
			for _, b := range collection.Badges {
				kinds = append(kinds, b.Kind)
				assert.Equal(t, id, b.QuestID)
				assert.Equal(t, tier.Badge, b.Tier)
				assert.Equal(t, clock.Now(), b.AwardedAt)
			}
			assert.Equal(t, tt.expectedKinds, kinds)

			other, err := repo.ListBadges(ctx, "GSOMEONEELSE")
			require.NoError(t, err)
			assert.Empty(t, other.Badges)
		})
	}
}

func TestRepository_ListQuestIDsKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	require.NoError(t, repo.Fund(ctx, testOwner, 100_000_000))
	require.NoError(t, repo.Fund(ctx, "GOTHER", 100_000_000))

	// same clock instant for every create; order comes from the ledger sequence
	var want []model.QuestID
	for i := 0; i < 5; i++ {
		id, err := repo.CreateQuest(ctx, testOwner, weekParams())
		require.NoError(t, err)
		want = append(want, id)
		_, err = repo.CreateQuest(ctx, "GOTHER", weekParams())
		require.NoError(t, err)
	}

	got, err := repo.ListQuestIDs(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRepository_CancelQuest(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	require.NoError(t, repo.Fund(ctx, testOwner, 10_000_000))

	id, err := repo.CreateQuest(ctx, testOwner, weekParams())
	require.NoError(t, err)

	quest, err := repo.CancelQuest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, quest.Status)

	_, err = repo.CancelQuest(ctx, id)
	assert.ErrorIs(t, err, ErrQuestNotActive)

	_, err = repo.LogActivity(ctx, model.ActivityLogEntry{QuestID: id, ActivitiesCount: 1})
	assert.ErrorIs(t, err, ErrQuestNotActive)

	stats, err := repo.PoolStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), stats.CommunityPool)
	assert.Equal(t, int64(0), stats.YieldPool)
}

func TestRepository_NormalizesNumericStatus(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	require.NoError(t, repo.Fund(ctx, testOwner, 10_000_000))

	id, err := repo.CreateQuest(ctx, testOwner, weekParams())
	require.NoError(t, err)

	query, args, err := squirrel.
		Update("quests").
		Set("status", "2").
		Where(squirrel.Eq{"quest_id": string(id)}).
		PlaceholderFormat(squirrel.Question).
		ToSql()
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx, query, args...)
	require.NoError(t, err)

	quest, err := repo.GetQuest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, quest.Status)
}

func TestYieldShare(t *testing.T) {
	assert.Equal(t, int64(9_589), YieldShare(10_000_000, 7))
	assert.Equal(t, int64(0), YieldShare(0, 90))
}
