package service

import (
	"context"
	"errors"

	"trybud/internal/model"
)

var (
	ErrInvalidParameters    = errors.New("invalid quest parameters")
	ErrUnauthenticated      = errors.New("no wallet address")
	ErrNotQuestOwner        = errors.New("quest belongs to another wallet")
	ErrQuestNotFound        = errors.New("quest not found")
	ErrQuestNotActive       = errors.New("quest is not active")
	ErrQuestAlreadyComplete = errors.New("quest already has every day completed")
	ErrQuestNotExpired      = errors.New("quest has not reached its end time")
	ErrOperationInFlight    = errors.New("another operation on this quest is in progress")
	ErrStakeTransferFailed  = errors.New("stake could not be locked")
	ErrLedgerRejected       = errors.New("ledger rejected the operation")
)

type Service struct {
	*QuestService
	*DashboardService
}

func NewService(questService *QuestService, dashboardService *DashboardService) *Service {
	return &Service{
		QuestService:     questService,
		DashboardService: dashboardService,
	}
}

type QuestServiceI interface {
	CreateQuest(ctx context.Context, owner model.Address, req CreateQuestRequest) (model.QuestID, error)
	GetQuest(ctx context.Context, id model.QuestID) (*model.Quest, error)
	LogActivity(ctx context.Context, caller model.Address, req LogActivityRequest) (*model.Quest, error)
	SettleQuest(ctx context.Context, caller model.Address, id model.QuestID) (*model.Quest, error)
	CancelQuest(ctx context.Context, caller model.Address, id model.QuestID) (*model.Quest, error)
	LoadQuests(ctx context.Context, owner model.Address) ([]*model.Quest, error)
	PoolStats(ctx context.Context) (*model.PoolStats, error)
	Badges(ctx context.Context, owner model.Address) (*model.BadgeCollection, error)
}

// QuestLedger is the authoritative remote store of quests and stakes.
type QuestLedger interface {
	CreateQuest(ctx context.Context, owner model.Address, params model.QuestParams) (model.QuestID, error)
	ListQuestIDs(ctx context.Context, owner model.Address) ([]model.QuestID, error)
	GetQuest(ctx context.Context, id model.QuestID) (*model.Quest, error)
	LogActivity(ctx context.Context, entry model.ActivityLogEntry) (*model.Quest, error)
	SettleQuest(ctx context.Context, id model.QuestID) (*model.Quest, error)
	CancelQuest(ctx context.Context, id model.QuestID) (*model.Quest, error)
	PoolStats(ctx context.Context) (*model.PoolStats, error)
	ListBadges(ctx context.Context, owner model.Address) (*model.BadgeCollection, error)
}

type DashboardServiceI interface {
	Dashboard(ctx context.Context, owner model.Address) (*model.Dashboard, error)
	AwardBonus(ctx context.Context, owner model.Address, points int) (*model.Dashboard, error)
}

type QuestLoader interface {
	LoadQuests(ctx context.Context, owner model.Address) ([]*model.Quest, error)
}

type SessionStore interface {
	BonusPoints(owner model.Address) int
	AwardBonus(owner model.Address, points int) (int, error)
	ObserveStage(owner model.Address, stage int) bool
}
