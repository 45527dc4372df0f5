package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stellar/go/strkey"
	"github.com/stretchr/testify/assert"
)

var validAddress = strkey.MustEncode(strkey.VersionByteAccountID, bytes.Repeat([]byte{7}, 32))

func newRouter(debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	a := NewWalletAuth(debug)
	r := gin.New()
	whoami := func(c *gin.Context) {
		c.String(http.StatusOK, string(Address(c)))
	}
	r.GET("/whoami", a.WalletAuthMiddleware(), whoami)
	r.GET("/ws", a.WebSocketAuthMiddleware(), whoami)
	return r
}

func TestWalletAuthMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		debug          bool
		path           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{name: "Anonymous", path: "/whoami", expectedStatus: http.StatusOK, expectedBody: ""},
		{name: "Valid address", path: "/whoami", header: "Wallet " + validAddress, expectedStatus: http.StatusOK, expectedBody: validAddress},
		{name: "Wrong scheme", path: "/whoami", header: "Bearer " + validAddress, expectedStatus: http.StatusUnauthorized},
		{name: "Malformed address", path: "/whoami", header: "Wallet GABC", expectedStatus: http.StatusUnauthorized},
		{name: "Empty address", path: "/whoami", header: "Wallet ", debug: true, expectedStatus: http.StatusUnauthorized},
		{name: "Query parameter ignored outside websocket", path: "/whoami?wallet=" + validAddress, expectedStatus: http.StatusOK, expectedBody: ""},
		{name: "Query parameter on websocket", path: "/ws?wallet=" + validAddress, expectedStatus: http.StatusOK, expectedBody: validAddress},
		{name: "Malformed query parameter on websocket", path: "/ws?wallet=nope", expectedStatus: http.StatusUnauthorized},
		{name: "Header wins on websocket", path: "/ws?wallet=nope", header: "Wallet " + validAddress, expectedStatus: http.StatusOK, expectedBody: validAddress},
		{name: "Debug accepts any address", path: "/whoami", header: "Wallet alice", debug: true, expectedStatus: http.StatusOK, expectedBody: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			newRouter(tt.debug).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress(validAddress))

	// right shape, wrong checksum
	last := validAddress[len(validAddress)-1]
	swapped := byte('A')
	if last == 'A' {
		swapped = 'B'
	}
	assert.False(t, ValidAddress(validAddress[:len(validAddress)-1]+string(swapped)))

	assert.False(t, ValidAddress("G"+strings.Repeat("A", 55)))
	seed := strkey.MustEncode(strkey.VersionByteSeed, bytes.Repeat([]byte{7}, 32))
	assert.False(t, ValidAddress(seed), "secret seeds are not account ids")
	assert.False(t, ValidAddress(strings.ToLower(validAddress)))
	assert.False(t, ValidAddress(validAddress+"A"))
}
