package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trybud/internal/catalog"
	"trybud/internal/model"
	"trybud/internal/repository"
	"trybud/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// loadConcurrency bounds parallel GetQuest calls during a bulk load.
const loadConcurrency = 8

type CreateQuestRequest struct {
	Type         model.QuestType
	DailyTarget  int
	DurationDays int
	GraceDays    int
}

type LogActivityRequest struct {
	QuestID           model.QuestID
	ActivitiesCount   int
	VerificationToken string
}

// QuestService drives the quest lifecycle against the ledger. Every write is a
// single ledger call with no retry; on failure nothing is reported as changed.
type QuestService struct {
	ledger QuestLedger
	now    func() time.Time

	mu       sync.Mutex
	inflight map[model.QuestID]struct{}
}

func NewQuestService(ledger QuestLedger) *QuestService {
	return &QuestService{
		ledger:   ledger,
		now:      time.Now,
		inflight: make(map[model.QuestID]struct{}),
	}
}

func (s *QuestService) CreateQuest(ctx context.Context, owner model.Address, req CreateQuestRequest) (model.QuestID, error) {
	if owner == "" {
		return "", ErrUnauthenticated
	}

	params, err := questParams(req)
	if err != nil {
		return "", err
	}

	id, err := s.ledger.CreateQuest(ctx, owner, params)
	if err != nil {
		logger.Logger().Warn("ledger failed to create quest",
			zap.String("owner", string(owner)), zap.Error(err))
		if errors.Is(err, repository.ErrInsufficientStake) {
			return "", fmt.Errorf("%w: %w", ErrStakeTransferFailed, err)
		}
		return "", fmt.Errorf("%w: %w", ErrLedgerRejected, err)
	}

	logger.Logger().Info("quest created",
		zap.String("quest_id", string(id)),
		zap.String("owner", string(owner)),
		zap.Stringer("type", params.Type),
		zap.Int("duration_days", params.DurationDays),
		zap.Int64("stake", params.StakeAmount))

	return id, nil
}

// questParams validates a create request and resolves its stake from the
// catalog. Nothing here touches the ledger.
func questParams(req CreateQuestRequest) (model.QuestParams, error) {
	if !req.Type.Valid() {
		return model.QuestParams{}, fmt.Errorf("%w: unknown quest type %d", ErrInvalidParameters, req.Type)
	}
	if req.DailyTarget < catalog.MinDailyTarget || req.DailyTarget > catalog.MaxDailyTarget {
		return model.QuestParams{}, fmt.Errorf("%w: daily target must be between %d and %d",
			ErrInvalidParameters, catalog.MinDailyTarget, catalog.MaxDailyTarget)
	}

	tier, err := catalog.TierFor(req.DurationDays)
	if err != nil {
		return model.QuestParams{}, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	if req.GraceDays < 0 || req.GraceDays > catalog.MaxGraceDays || req.GraceDays >= tier.DurationDays {
		return model.QuestParams{}, fmt.Errorf("%w: grace days must be between 0 and %d",
			ErrInvalidParameters, catalog.MaxGraceDays)
	}

	return model.QuestParams{
		Type:         req.Type,
		DailyTarget:  req.DailyTarget,
		DurationDays: tier.DurationDays,
		GraceDays:    req.GraceDays,
		StakeAmount:  tier.StakeAmount,
	}, nil
}

func (s *QuestService) GetQuest(ctx context.Context, id model.QuestID) (*model.Quest, error) {
	quest, err := s.ledger.GetQuest(ctx, id)
	if err != nil {
		return nil, ledgerError(err)
	}
	return quest, nil
}

// LogActivity grants exactly one day of credit per accepted call. The
// activities count is recorded for audit only.
func (s *QuestService) LogActivity(ctx context.Context, caller model.Address, req LogActivityRequest) (*model.Quest, error) {
	if caller == "" {
		return nil, ErrUnauthenticated
	}
	if req.ActivitiesCount < 1 {
		return nil, fmt.Errorf("%w: activities count must be at least 1", ErrInvalidParameters)
	}

	release, err := s.acquire(req.QuestID)
	if err != nil {
		return nil, err
	}
	defer release()

	quest, err := s.GetQuest(ctx, req.QuestID)
	if err != nil {
		return nil, err
	}
	if quest.Owner != caller {
		return nil, ErrNotQuestOwner
	}
	if quest.Status != model.StatusActive {
		return nil, ErrQuestNotActive
	}
	if quest.RemainingDays() == 0 {
		return nil, ErrQuestAlreadyComplete
	}

	updated, err := s.ledger.LogActivity(ctx, model.ActivityLogEntry{
		QuestID:           req.QuestID,
		ActivitiesCount:   req.ActivitiesCount,
		VerificationToken: req.VerificationToken,
		Timestamp:         s.now().UTC(),
	})
	if err != nil {
		logger.Logger().Warn("ledger rejected activity log",
			zap.String("quest_id", string(req.QuestID)), zap.Error(err))
		return nil, ledgerError(err)
	}

	logger.Logger().Info("activity logged",
		zap.String("quest_id", string(req.QuestID)),
		zap.Int("activities", req.ActivitiesCount),
		zap.Int("days_completed", updated.DaysCompleted))

	return updated, nil
}

// SettleQuest asks the ledger to resolve an expired quest and reflects the
// outcome it decides. Settling a terminal quest is a no-op.
func (s *QuestService) SettleQuest(ctx context.Context, caller model.Address, id model.QuestID) (*model.Quest, error) {
	if caller == "" {
		return nil, ErrUnauthenticated
	}

	release, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	quest, err := s.GetQuest(ctx, id)
	if err != nil {
		return nil, err
	}
	if quest.Status.Terminal() {
		return quest, nil
	}

	settled, err := s.ledger.SettleQuest(ctx, id)
	if err != nil {
		logger.Logger().Warn("ledger failed to settle quest",
			zap.String("quest_id", string(id)), zap.Error(err))
		return nil, ledgerError(err)
	}

	logger.Logger().Info("quest settled",
		zap.String("quest_id", string(id)),
		zap.Stringer("status", settled.Status),
		zap.Int64("reward", settled.Reward))

	return settled, nil
}

func (s *QuestService) CancelQuest(ctx context.Context, caller model.Address, id model.QuestID) (*model.Quest, error) {
	if caller == "" {
		return nil, ErrUnauthenticated
	}

	release, err := s.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	quest, err := s.GetQuest(ctx, id)
	if err != nil {
		return nil, err
	}
	if quest.Owner != caller {
		return nil, ErrNotQuestOwner
	}
	if quest.Status != model.StatusActive {
		return nil, ErrQuestNotActive
	}

	cancelled, err := s.ledger.CancelQuest(ctx, id)
	if err != nil {
		logger.Logger().Warn("ledger failed to cancel quest",
			zap.String("quest_id", string(id)), zap.Error(err))
		return nil, ledgerError(err)
	}

	logger.Logger().Info("quest cancelled", zap.String("quest_id", string(id)))
	return cancelled, nil
}

// LoadQuests reads every quest a wallet owns, in ledger order.
func (s *QuestService) LoadQuests(ctx context.Context, owner model.Address) ([]*model.Quest, error) {
	if owner == "" {
		return []*model.Quest{}, nil
	}

	ids, err := s.ledger.ListQuestIDs(ctx, owner)
	if err != nil {
		return nil, ledgerError(err)
	}

	quests := make([]*model.Quest, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			quest, err := s.ledger.GetQuest(gctx, id)
			if err != nil {
				return ledgerError(err)
			}
			quests[i] = quest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return quests, nil
}

func (s *QuestService) PoolStats(ctx context.Context) (*model.PoolStats, error) {
	stats, err := s.ledger.PoolStats(ctx)
	if err != nil {
		return nil, ledgerError(err)
	}
	return stats, nil
}

// Badges returns the wallet's badge collection. Badges are awarded by the
// ledger when a quest settles as Completed.
func (s *QuestService) Badges(ctx context.Context, owner model.Address) (*model.BadgeCollection, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}

	badges, err := s.ledger.ListBadges(ctx, owner)
	if err != nil {
		return nil, ledgerError(err)
	}
	return badges, nil
}

// acquire marks a quest as having an operation in flight.
func (s *QuestService) acquire(id model.QuestID) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[id]; busy {
		return nil, ErrOperationInFlight
	}
	s.inflight[id] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}, nil
}

// ledgerError classifies a ledger failure while keeping the underlying cause in
// the chain.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrQuestNotFound, err)
	case errors.Is(err, repository.ErrQuestNotActive):
		return fmt.Errorf("%w: %w", ErrQuestNotActive, err)
	case errors.Is(err, repository.ErrQuestNotFinished):
		return fmt.Errorf("%w: %w", ErrQuestNotExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrLedgerRejected, err)
	}
}
