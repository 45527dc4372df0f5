package api

import (
	"net/http"
	"time"

	"trybud/internal/service"
	"trybud/pkg/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter mounts every route under /api/v1.
func NewRouter(svc *service.Service, events EventSubscriber, a *auth.WalletAuth) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	config.AllowHeaders = []string{"*"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	v1 := router.Group("/api/v1")
	NewCatalogRoutes(v1, svc.QuestService)
	NewQuestRoutes(v1, svc.QuestService, svc.DashboardService, a)
	NewBadgeRoutes(v1, svc.QuestService, a)
	NewSessionRoutes(v1, svc.DashboardService, a)
	NewEventRoutes(v1, events, a)

	return router
}
