package api

import (
	"net/http"
	"time"

	"trybud/internal/middleware"
	"trybud/internal/model"
	"trybud/internal/service"
	"trybud/pkg/auth"
	"trybud/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventSubscriber interface {
	Subscribe(owner model.Address) (<-chan service.Event, func())
}

type eventRoutes struct {
	events EventSubscriber
}

// NewEventRoutes exposes a push channel for level-up events. Clients only
// receive; anything they send is discarded.
func NewEventRoutes(handler *gin.RouterGroup, events EventSubscriber, a *auth.WalletAuth) {
	r := &eventRoutes{events: events}
	h := handler.Group("/ws")
	h.Use(a.WebSocketAuthMiddleware(), middleware.RequireWallet())
	h.GET("", r.handleWebSocket)
}

func (r *eventRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()
	owner := auth.Address(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Info("websocket upgrade failed", zap.Error(err))
		return
	}

	events, cancel := r.events.Subscribe(owner)
	go r.writeLoop(conn, owner, events, cancel)
}

func (r *eventRoutes) writeLoop(conn *websocket.Conn, owner model.Address, events <-chan service.Event, cancel func()) {
	log := logger.Logger().With(zap.String("owner", string(owner)))

	done := make(chan struct{})
	go readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			msg, err := json.Marshal(event)
			if err != nil {
				log.Error("failed to marshal event", zap.Error(err))
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Info("websocket write failed", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains the connection so control frames are processed, and closes
// done when the peer goes away.
func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Logger().Info("websocket unexpected close", zap.Error(err))
			}
			return
		}
	}
}
