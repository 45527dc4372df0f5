package service

import (
	"context"
	"fmt"

	"trybud/internal/aggregator"
	"trybud/internal/leveling"
	"trybud/internal/model"
	"trybud/pkg/logger"

	"go.uber.org/zap"
)

// DashboardService recomputes derived metrics from a fresh quest load on every
// call. Nothing derived is cached.
type DashboardService struct {
	quests   QuestLoader
	sessions SessionStore
	notifier *Notifier
}

func NewDashboardService(quests QuestLoader, sessions SessionStore, notifier *Notifier) *DashboardService {
	return &DashboardService{
		quests:   quests,
		sessions: sessions,
		notifier: notifier,
	}
}

func (s *DashboardService) Dashboard(ctx context.Context, owner model.Address) (*model.Dashboard, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}

	quests, err := s.quests.LoadQuests(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load quests: %w", err)
	}

	return s.build(owner, quests), nil
}

// AwardBonus credits out-of-band session points and returns the refreshed
// dashboard.
func (s *DashboardService) AwardBonus(ctx context.Context, owner model.Address, points int) (*model.Dashboard, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}

	if _, err := s.sessions.AwardBonus(owner, points); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	return s.Dashboard(ctx, owner)
}

func (s *DashboardService) build(owner model.Address, quests []*model.Quest) *model.Dashboard {
	bonus := s.sessions.BonusPoints(owner)
	metrics := aggregator.Aggregate(quests, bonus)
	stageUp := s.sessions.ObserveStage(owner, metrics.BuddyStage)

	if stageUp {
		s.announceStage(owner, metrics)
	}

	return &model.Dashboard{
		Owner:       owner,
		Quests:      quests,
		Actionable:  aggregator.Actionable(quests),
		BonusPoints: bonus,
		Metrics:     metrics,
		StageUp:     stageUp,
	}
}

func (s *DashboardService) announceStage(owner model.Address, metrics model.DerivedMetrics) {
	label, err := leveling.StageLabel(metrics.BuddyStage)
	if err != nil {
		logger.Logger().Error("stage out of range", zap.Int("stage", metrics.BuddyStage), zap.Error(err))
		return
	}

	logger.Logger().Info("buddy stage increased",
		zap.String("owner", string(owner)),
		zap.Int("stage", metrics.BuddyStage),
		zap.Int("points", metrics.TotalPoints))

	if s.notifier == nil {
		return
	}
	s.notifier.Publish(owner, Event{
		Type: EventStageUp,
		Payload: map[string]any{
			"stage":  metrics.BuddyStage,
			"label":  label,
			"points": metrics.TotalPoints,
		},
	})
}
