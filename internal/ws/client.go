// internal/ws/client.go
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"auctionbackend/internal/auction"
	"auctionbackend/internal/logger"
	"auctionbackend/internal/security"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one connected participant: a websocket connection plus its
// authenticated identity and outbound queue.
type Client struct {
	hub      *Hub
	engine   *auction.Engine
	conn     *websocket.Conn
	identity *security.Identity

	sendMu sync.Mutex
	closed bool
	send   chan Out
}

func newClient(hub *Hub, engine *auction.Engine, conn *websocket.Conn, identity *security.Identity) *Client {
	return &Client{
		hub:      hub,
		engine:   engine,
		conn:     conn,
		identity: identity,
		send:     make(chan Out, sendBuffer),
	}
}

// enqueue queues one outbound message, reporting false when the buffer is
// full. A client whose queue has been closed swallows the message: its own
// readPump may still be dispatching after the hub dropped it, and a send on
// the closed channel would panic the engine's caller.
func (c *Client) enqueue(msg Out) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend shuts the outbound queue exactly once. writePump drains the
// remaining messages and closes the connection on its way out.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// unicast queues a message for this client only.
func (c *Client) unicast(msg Out) {
	if !c.enqueue(msg) {
		logger.LogWarn("Unicast to %s dropped: send buffer full", c.identity.Username)
	}
}

// readPump receives inbound events until the connection closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		c.hub.Broadcast(auction.EventUserDisconnected, userDisconnected{Username: c.identity.Username})
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var env Envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.LogWarn("Read error from %s: %v", c.identity.Username, err)
			}
			return
		}
		c.dispatch(env)
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.LogWarn("Write error to %s: %v", c.identity.Username, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch routes one inbound event to the engine. Rejections are unicast to
// this client only; accepted mutations broadcast through the hub.
func (c *Client) dispatch(env Envelope) {
	switch env.Type {
	case MsgPing:
		c.unicast(Out{Type: "pong"})

	case MsgSubmitBid:
		var p submitBidPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.unicast(Out{Type: auction.EventBidRejected, Payload: auction.BidRejectedEvent{
				Code: "bad_payload", Message: "invalid bid payload",
			}})
			return
		}
		if err := c.engine.SubmitBid(c.identity.ID, p.Item, p.Amount); err != nil {
			c.unicast(Out{Type: auction.EventBidRejected, Payload: rejectionOf(err)})
		}

	case MsgAdminStartPool:
		var p adminStartPoolPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.opFailed(env.Type, "bad_payload", "invalid payload")
			return
		}
		c.reportOp(env.Type, c.engine.StartPool(c.identity.ID, p.Category, p.PoolNumber))

	case MsgAdminSell:
		var p adminSellPayload
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				c.opFailed(env.Type, "bad_payload", "invalid payload")
				return
			}
		}
		c.reportOp(env.Type, c.engine.Sell(c.identity.ID, p.Item))

	case MsgAdminAdvance:
		c.reportOp(env.Type, c.engine.AdvanceNext(c.identity.ID))

	case MsgAdminPause:
		c.reportOp(env.Type, c.engine.Pause(c.identity.ID))

	case MsgAdminResume:
		c.reportOp(env.Type, c.engine.Resume(c.identity.ID))

	default:
		logger.LogWarn("Unknown message type %q from %s", env.Type, c.identity.Username)
	}
}

// reportOp unicasts an error outcome of an admin operation to its caller.
func (c *Client) reportOp(op string, err error) {
	if err == nil {
		return
	}
	if e, ok := auction.AsEngineError(err); ok {
		c.opFailed(op, e.Code, e.Message)
		return
	}
	logger.LogError("Operation %s failed: %v", op, err)
	c.opFailed(op, "internal_error", "operation failed")
}

func (c *Client) opFailed(op, code, message string) {
	c.unicast(Out{Type: "error", Payload: opError{Op: op, Code: code, Message: message}})
}

// rejectionOf converts an engine error into the bid_rejected payload.
func rejectionOf(err error) auction.BidRejectedEvent {
	if e, ok := auction.AsEngineError(err); ok {
		rej := auction.BidRejectedEvent{Code: e.Code, Message: e.Message}
		if e.Kind == auction.KindInsufficientFunds {
			balance := e.Balance
			rej.AvailableBalance = &balance
		}
		return rej
	}
	return auction.BidRejectedEvent{Code: "internal_error", Message: "bid could not be processed"}
}
