package challenges

import (
	"log"
	"net/http"

	"api/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChallengeWebSocket handles WebSocket connections for a specific
// challenge. Connected clients receive a leaderboard update after every
// accepted vote toggle.
func (h *Handler) ChallengeWebSocket(c *gin.Context) {
	ch, err := h.challenges.Get(c.Param("id"))
	if err != nil {
		respondWithServiceError(c, err, ErrFailedFetchChallenges)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	realtime.RegisterClient(ch.ID, conn)
	defer func() {
		realtime.UnregisterClient(ch.ID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
