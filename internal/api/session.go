package api

import (
	"net/http"

	"trybud/internal/middleware"
	"trybud/internal/service"
	"trybud/internal/session"
	"trybud/pkg/auth"
	"trybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sessionRoutes struct {
	ds service.DashboardServiceI
}

func NewSessionRoutes(handler *gin.RouterGroup, ds service.DashboardServiceI, a *auth.WalletAuth) {
	r := &sessionRoutes{ds: ds}
	h := handler.Group("/session")
	h.Use(a.WalletAuthMiddleware(), middleware.RequireWallet())
	{
		h.POST("/bonus", r.AwardBonus)
	}
}

type AwardBonusRequest struct {
	Points int `json:"points"`
}

// AwardBonus grants demo points to the current session. An empty body awards
// the default demo bonus.
func (r *sessionRoutes) AwardBonus(c *gin.Context) {
	owner := auth.Address(c)

	req := AwardBonusRequest{Points: session.DemoBonus}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Logger().Info("failed to bind request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	dashboard, err := r.ds.AwardBonus(c.Request.Context(), owner, req.Points)
	if err != nil {
		respondError(c, "failed to award bonus", err, zap.String("owner", string(owner)))
		return
	}

	respondDashboard(c, dashboard)
}
