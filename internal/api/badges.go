package api

import (
	"net/http"

	"trybud/internal/middleware"
	"trybud/internal/service"
	"trybud/internal/view"
	"trybud/pkg/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type badgeRoutes struct {
	qs service.QuestServiceI
}

func NewBadgeRoutes(handler *gin.RouterGroup, qs service.QuestServiceI, a *auth.WalletAuth) {
	r := &badgeRoutes{qs: qs}
	h := handler.Group("/badges")
	h.Use(a.WalletAuthMiddleware(), middleware.RequireWallet())
	{
		h.GET("", r.GetBadges)
	}
}

func (r *badgeRoutes) GetBadges(c *gin.Context) {
	owner := auth.Address(c)

	badges, err := r.qs.Badges(c.Request.Context(), owner)
	if err != nil {
		respondError(c, "failed to list badges", err, zap.String("owner", string(owner)))
		return
	}

	c.JSON(http.StatusOK, view.NewBadgeCollection(badges))
}
