package view

import (
	"trybud/internal/catalog"
	"trybud/internal/leveling"
	"trybud/internal/model"
)

type Tier struct {
	DurationDays int     `json:"duration_days"`
	StakeAmount  int64   `json:"stake_amount"`
	StakeUSDC    float64 `json:"stake_usdc"`
	Label        string  `json:"label"`
	Badge        string  `json:"badge"`
}

type QuestTypeOption struct {
	Type  string `json:"type"`
	Code  int    `json:"code"`
	Label string `json:"label"`
}

type Stage struct {
	Stage     int    `json:"stage"`
	Label     string `json:"label"`
	MinPoints int    `json:"min_points"`
}

type Catalog struct {
	Tiers          []Tier            `json:"tiers"`
	QuestTypes     []QuestTypeOption `json:"quest_types"`
	Stages         []Stage           `json:"stages"`
	MinDailyTarget int               `json:"min_daily_target"`
	MaxDailyTarget int               `json:"max_daily_target"`
	MaxGraceDays   int               `json:"max_grace_days"`
	PointsPerDay   int               `json:"points_per_day"`
}

func NewCatalog() *Catalog {
	c := &Catalog{
		MinDailyTarget: catalog.MinDailyTarget,
		MaxDailyTarget: catalog.MaxDailyTarget,
		MaxGraceDays:   catalog.MaxGraceDays,
		PointsPerDay:   leveling.PointsPerDay,
	}

	for _, t := range catalog.Tiers() {
		c.Tiers = append(c.Tiers, Tier{
			DurationDays: t.DurationDays,
			StakeAmount:  t.StakeAmount,
			StakeUSDC:    catalog.StakeToUSDC(t.StakeAmount),
			Label:        t.Label,
			Badge:        t.Badge,
		})
	}

	for _, qt := range catalog.QuestTypes() {
		c.QuestTypes = append(c.QuestTypes, QuestTypeOption{
			Type:  qt.String(),
			Code:  int(qt),
			Label: catalog.QuestTypeLabel(qt),
		})
	}

	for stage := leveling.MinStage; stage <= leveling.MaxStage; stage++ {
		label, _ := leveling.StageLabel(stage)
		threshold, _ := leveling.StageThreshold(stage)
		c.Stages = append(c.Stages, Stage{Stage: stage, Label: label, MinPoints: threshold})
	}

	return c
}

type Pool struct {
	CommunityPool     int64   `json:"community_pool"`
	CommunityPoolUSDC float64 `json:"community_pool_usdc"`
	YieldPool         int64   `json:"yield_pool"`
	YieldPoolUSDC     float64 `json:"yield_pool_usdc"`
}

func NewPool(stats *model.PoolStats) Pool {
	return Pool{
		CommunityPool:     stats.CommunityPool,
		CommunityPoolUSDC: catalog.StakeToUSDC(stats.CommunityPool),
		YieldPool:         stats.YieldPool,
		YieldPoolUSDC:     catalog.StakeToUSDC(stats.YieldPool),
	}
}
