package middleware

import (
	"net/http"

	"trybud/pkg/auth"
	"trybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireWallet rejects requests that reached the handler without a wallet
// address. It must run after auth.WalletAuthMiddleware.
func RequireWallet() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.Address(c) == "" {
			logger.Logger().Info("wallet required",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "wallet not connected"})
			return
		}
		c.Next()
	}
}
