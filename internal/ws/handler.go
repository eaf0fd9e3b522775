// internal/ws/handler.go
package ws

import (
	"net/http"

	"github.com/gorilla/websocket"

	"auctionbackend/internal/auction"
	"auctionbackend/internal/logger"
	"auctionbackend/internal/security"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS authenticates and upgrades a participant connection. A newly
// joined client is first sent a full state snapshot so its view is
// consistent with the event stream it starts observing.
func ServeWS(hub *Hub, engine *auction.Engine, sessions *security.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := sessions.IdentityFromToken(security.TokenFromRequest(r))
		if err != nil {
			logger.LogWarn("Websocket connection without valid session from %s", logger.GetClientIP(r))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.LogError("Websocket upgrade failed: %v", err)
			return
		}

		client := newClient(hub, engine, conn, identity)

		// Snapshot and registration happen under the engine's state mutex,
		// so the snapshot strictly precedes every delta this client sees
		// and no event can fall in between.
		engine.Attach(func(snap *auction.Snapshot) {
			client.unicast(Out{Type: auction.EventStateSnapshot, Payload: snap})
			hub.Register(client)
		})

		go client.writePump()
		go client.readPump()
	}
}
