package api

import (
	"net/http"

	"trybud/internal/service"
	"trybud/internal/view"

	"github.com/gin-gonic/gin"
)

type catalogRoutes struct {
	qs service.QuestServiceI
}

func NewCatalogRoutes(handler *gin.RouterGroup, qs service.QuestServiceI) {
	r := &catalogRoutes{qs: qs}
	handler.GET("/catalog", r.GetCatalog)
	handler.GET("/pool", r.GetPool)
}

func (r *catalogRoutes) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, view.NewCatalog())
}

func (r *catalogRoutes) GetPool(c *gin.Context) {
	stats, err := r.qs.PoolStats(c.Request.Context())
	if err != nil {
		respondError(c, "failed to get pool stats", err)
		return
	}

	c.JSON(http.StatusOK, view.NewPool(stats))
}
