package handlers

import (
	"log"
	"net/http"

	"expense-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades event-feed clients and keeps their connections
// registered for broadcasts.
type WSHandler struct {
	mgr *ws.Manager
}

func NewWSHandler(mgr *ws.Manager) *WSHandler {
	return &WSHandler{mgr: mgr}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleEventFeed upgrades to websocket and holds the connection open until
// the client goes away. The feed is one-way; inbound frames are drained and
// discarded so pings and closes are processed.
// GET /ws
func (h *WSHandler) HandleEventFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	clientID := uuid.New().String()
	h.mgr.Register(clientID, conn)
	log.Printf("event-feed client connected: %s", clientID)

	defer func() {
		h.mgr.Unregister(clientID)
		log.Printf("event-feed client disconnected: %s", clientID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("event-feed read error from %s: %v", clientID, err)
			}
			return
		}
	}
}
