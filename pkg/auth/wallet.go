package auth

import (
	"net/http"
	"strings"

	"trybud/internal/model"
	"trybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stellar/go/strkey"
	"go.uber.org/zap"
)

const (
	ContextKey = "wallet_address"
	QueryParam = "wallet"

	schemePrefix = "Wallet "
)

// WalletAuth reads the caller's wallet address. Signing is done by the wallet
// provider; this layer only establishes which address is acting.
type WalletAuth struct {
	debugMode bool
}

func NewWalletAuth(debugMode bool) *WalletAuth {
	return &WalletAuth{
		debugMode: debugMode,
	}
}

// WalletAuthMiddleware stores the address from an `Authorization: Wallet <addr>`
// header. Requests without the header continue anonymously; a malformed header
// is rejected.
func (w *WalletAuth) WalletAuthMiddleware() gin.HandlerFunc {
	return w.middleware(false)
}

// WebSocketAuthMiddleware also accepts the `wallet` query parameter, since
// browsers cannot set headers on a websocket handshake. Use it only on the
// websocket route.
func (w *WalletAuth) WebSocketAuthMiddleware() gin.HandlerFunc {
	return w.middleware(true)
}

func (w *WalletAuth) middleware(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" && allowQuery {
			if wallet := c.Query(QueryParam); wallet != "" {
				authHeader = schemePrefix + wallet
			}
		}
		if authHeader == "" {
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, schemePrefix) {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		address := strings.TrimSpace(strings.TrimPrefix(authHeader, schemePrefix))
		if address == "" || (!w.debugMode && !ValidAddress(address)) {
			log.Info("invalid wallet address", zap.String("address", address))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid wallet address"})
			return
		}

		c.Set(ContextKey, model.Address(address))
		c.Next()
	}
}

// ValidAddress reports whether address is a Stellar account id (G...) with a
// correct version byte and checksum.
func ValidAddress(address string) bool {
	return strkey.IsValidEd25519PublicKey(address)
}

// Address returns the wallet set by the middleware, or "" when anonymous.
func Address(c *gin.Context) model.Address {
	v, exists := c.Get(ContextKey)
	if !exists {
		return ""
	}
	address, ok := v.(model.Address)
	if !ok {
		logger.Logger().Error("invalid type assertion for wallet address")
		return ""
	}
	return address
}
