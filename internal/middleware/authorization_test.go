package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"trybud/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireWallet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(auth.NewWalletAuth(true).WalletAuthMiddleware(), RequireWallet())
	r.POST("/quests", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "Anonymous", expectedStatus: http.StatusUnauthorized},
		{name: "Connected", header: "Wallet alice", expectedStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/quests", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
