package realtime

import (
	"log"
	"sync"

	"api/metrics"
	"api/services"

	"github.com/gorilla/websocket"
)

var (
	challengeClients = make(map[string]map[*websocket.Conn]bool) // Map of challenge ID to connected clients
	broadcast        = make(chan LeaderboardUpdate, 16)          // Broadcast channel for leaderboard updates
	mutex            sync.Mutex                                  // Protects challengeClients
)

// LeaderboardUpdate is pushed to every client watching a challenge after a
// vote toggle changes its standings.
type LeaderboardUpdate struct {
	ChallengeID string                    `json:"challenge_id"`
	Rows        []services.LeaderboardRow `json:"rows"`
}

// RegisterClient adds a WebSocket client to a specific challenge
func RegisterClient(challengeID string, conn *websocket.Conn) {
	mutex.Lock()
	if challengeClients[challengeID] == nil {
		challengeClients[challengeID] = make(map[*websocket.Conn]bool)
	}
	challengeClients[challengeID][conn] = true
	mutex.Unlock()
	metrics.WebsocketClients.Inc()
}

// UnregisterClient removes a WebSocket client from a specific challenge
func UnregisterClient(challengeID string, conn *websocket.Conn) {
	mutex.Lock()
	if clients, exists := challengeClients[challengeID]; exists {
		if clients[conn] {
			delete(clients, conn)
			metrics.WebsocketClients.Dec()
		}
		if len(clients) == 0 {
			delete(challengeClients, challengeID)
		}
	}
	mutex.Unlock()
}

// BroadcastLeaderboard queues an update for every client watching the
// challenge. Safe to call from any goroutine.
func BroadcastLeaderboard(update LeaderboardUpdate) {
	broadcast <- update
}

func handleBroadcast() {
	for update := range broadcast {
		mutex.Lock()
		if clients, exists := challengeClients[update.ChallengeID]; exists {
			for client := range clients {
				if err := client.WriteJSON(update); err != nil {
					log.Printf("WebSocket write error: %v", err)
					client.Close()
					delete(clients, client)
					metrics.WebsocketClients.Dec()
				}
			}
		}
		mutex.Unlock()
	}
}

func init() {
	go handleBroadcast()
}
