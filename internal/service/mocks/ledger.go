package mocks

import (
	"context"

	"trybud/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockQuestLedger struct {
	mock.Mock
}

func (m *MockQuestLedger) CreateQuest(ctx context.Context, owner model.Address, params model.QuestParams) (model.QuestID, error) {
	args := m.Called(ctx, owner, params)
	return args.Get(0).(model.QuestID), args.Error(1)
}

func (m *MockQuestLedger) ListQuestIDs(ctx context.Context, owner model.Address) ([]model.QuestID, error) {
	args := m.Called(ctx, owner)
	ids, _ := args.Get(0).([]model.QuestID)
	return ids, args.Error(1)
}

func (m *MockQuestLedger) GetQuest(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	args := m.Called(ctx, id)
	quest, _ := args.Get(0).(*model.Quest)
	return quest, args.Error(1)
}

func (m *MockQuestLedger) LogActivity(ctx context.Context, entry model.ActivityLogEntry) (*model.Quest, error) {
	args := m.Called(ctx, entry)
	quest, _ := args.Get(0).(*model.Quest)
	return quest, args.Error(1)
}

func (m *MockQuestLedger) SettleQuest(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	args := m.Called(ctx, id)
	quest, _ := args.Get(0).(*model.Quest)
	return quest, args.Error(1)
}

func (m *MockQuestLedger) CancelQuest(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	args := m.Called(ctx, id)
	quest, _ := args.Get(0).(*model.Quest)
	return quest, args.Error(1)
}

func (m *MockQuestLedger) PoolStats(ctx context.Context) (*model.PoolStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.PoolStats)
	return stats, args.Error(1)
}

func (m *MockQuestLedger) ListBadges(ctx context.Context, owner model.Address) (*model.BadgeCollection, error) {
	args := m.Called(ctx, owner)
	badges, _ := args.Get(0).(*model.BadgeCollection)
	return badges, args.Error(1)
}

type MockQuestLoader struct {
	mock.Mock
}

func (m *MockQuestLoader) LoadQuests(ctx context.Context, owner model.Address) ([]*model.Quest, error) {
	args := m.Called(ctx, owner)
	quests, _ := args.Get(0).([]*model.Quest)
	return quests, args.Error(1)
}
