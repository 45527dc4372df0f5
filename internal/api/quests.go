package api

import (
	"net/http"
	"time"

	"trybud/internal/catalog"
	"trybud/internal/middleware"
	"trybud/internal/model"
	"trybud/internal/service"
	"trybud/internal/view"
	"trybud/pkg/auth"
	"trybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type questRoutes struct {
	qs service.QuestServiceI
	ds service.DashboardServiceI
}

func NewQuestRoutes(handler *gin.RouterGroup, qs service.QuestServiceI, ds service.DashboardServiceI, a *auth.WalletAuth) {
	r := &questRoutes{qs: qs, ds: ds}
	h := handler.Group("/quests")
	h.Use(a.WalletAuthMiddleware(), middleware.RequireWallet())
	{
		h.GET("", r.GetDashboard)
		h.POST("", r.CreateQuest)
		h.GET("/:quest_id", r.GetQuest)
		h.POST("/:quest_id/activity", r.LogActivity)
		h.POST("/:quest_id/settle", r.SettleQuest)
		h.POST("/:quest_id/cancel", r.CancelQuest)
	}
}

type CreateQuestRequest struct {
	// Type is a quest type tag ("InterviewPrep") or its numeric code ("1").
	Type         string `json:"type" binding:"required"`
	DailyTarget  int    `json:"daily_target"`
	DurationDays int    `json:"duration_days"`
	GraceDays    int    `json:"grace_days"`
}

type LogActivityRequest struct {
	ActivitiesCount   int    `json:"activities_count"`
	VerificationToken string `json:"verification_token"`
}

type QuestResponse struct {
	ID            string    `json:"quest_id"`
	Owner         string    `json:"owner"`
	Type          string    `json:"type"`
	TypeLabel     string    `json:"type_label"`
	Status        string    `json:"status"`
	DailyTarget   int       `json:"daily_target"`
	DurationDays  int       `json:"duration_days"`
	GraceDays     int       `json:"grace_days"`
	DaysCompleted int       `json:"days_completed"`
	StakeAmount   int64     `json:"stake_amount"`
	YieldAccrued  int64     `json:"yield_accrued"`
	Reward        int64     `json:"reward"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`

	Card view.QuestCard `json:"card"`
}

func newQuestResponse(q *model.Quest) QuestResponse {
	return QuestResponse{
		ID:            string(q.ID),
		Owner:         string(q.Owner),
		Type:          q.Type.String(),
		TypeLabel:     catalog.QuestTypeLabel(q.Type),
		Status:        q.Status.String(),
		DailyTarget:   q.DailyTarget,
		DurationDays:  q.DurationDays,
		GraceDays:     q.GraceDays,
		DaysCompleted: q.DaysCompleted,
		StakeAmount:   q.StakeAmount,
		YieldAccrued:  q.YieldAccrued,
		Reward:        q.Reward,
		StartTime:     q.StartTime,
		EndTime:       q.EndTime,
		Card:          view.NewQuestCard(q),
	}
}

func (r *questRoutes) GetDashboard(c *gin.Context) {
	owner := auth.Address(c)

	dashboard, err := r.ds.Dashboard(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "failed to load dashboard", err, zap.String("owner", string(owner)))
		return
	}

	respondDashboard(c, dashboard)
}

func (r *questRoutes) CreateQuest(c *gin.Context) {
	log := logger.Logger()
	owner := auth.Address(c)

	var req CreateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	questType, err := model.ParseQuestType(req.Type)
	if err != nil {
		log.Info("unknown quest type", zap.String("type", req.Type))
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown quest type"})
		return
	}

	id, err := r.qs.CreateQuest(c.Request.Context(), owner, service.CreateQuestRequest{
		Type:         questType,
		DailyTarget:  req.DailyTarget,
		DurationDays: req.DurationDays,
		GraceDays:    req.GraceDays,
	})
	if err != nil {
		respondError(c, "failed to create quest", err, zap.String("owner", string(owner)))
		return
	}

	quest, err := r.qs.GetQuest(c.Request.Context(), id)
	if err != nil {
		// The quest exists on the ledger; the caller can fetch it later.
		log.Warn("created quest could not be read back", zap.String("quest_id", string(id)), zap.Error(err))
		c.JSON(http.StatusCreated, gin.H{"quest_id": id})
		return
	}

	c.JSON(http.StatusCreated, newQuestResponse(quest))
}

func (r *questRoutes) GetQuest(c *gin.Context) {
	id := model.QuestID(c.Param("quest_id"))

	quest, err := r.qs.GetQuest(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to get quest", err, zap.String("quest_id", string(id)))
		return
	}

	c.JSON(http.StatusOK, newQuestResponse(quest))
}

func (r *questRoutes) LogActivity(c *gin.Context) {
	id := model.QuestID(c.Param("quest_id"))

	var req LogActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger().Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	quest, err := r.qs.LogActivity(c.Request.Context(), auth.Address(c), service.LogActivityRequest{
		QuestID:           id,
		ActivitiesCount:   req.ActivitiesCount,
		VerificationToken: req.VerificationToken,
	})
	if err != nil {
		respondError(c, "failed to log activity", err, zap.String("quest_id", string(id)))
		return
	}

	c.JSON(http.StatusOK, newQuestResponse(quest))
}

func (r *questRoutes) SettleQuest(c *gin.Context) {
	id := model.QuestID(c.Param("quest_id"))

	quest, err := r.qs.SettleQuest(c.Request.Context(), auth.Address(c), id)
	if err != nil {
		respondError(c, "failed to settle quest", err, zap.String("quest_id", string(id)))
		return
	}

	c.JSON(http.StatusOK, newQuestResponse(quest))
}

func (r *questRoutes) CancelQuest(c *gin.Context) {
	id := model.QuestID(c.Param("quest_id"))

	quest, err := r.qs.CancelQuest(c.Request.Context(), auth.Address(c), id)
	if err != nil {
		respondError(c, "failed to cancel quest", err, zap.String("quest_id", string(id)))
		return
	}

	c.JSON(http.StatusOK, newQuestResponse(quest))
}

func respondDashboard(c *gin.Context, dashboard *model.Dashboard) {
	out, err := view.NewDashboard(dashboard)
	if err != nil {
		logger.Logger().Error("failed to render dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, out)
}
