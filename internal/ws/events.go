// internal/ws/events.go
package ws

import "encoding/json"

// Envelope is an inbound client message: a type tag plus raw payload.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Out is an outbound message envelope.
type Out struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Inbound message types.
const (
	MsgSubmitBid      = "submit_bid"
	MsgAdminSell      = "admin_sell"
	MsgAdminStartPool = "admin_start_pool"
	MsgAdminAdvance   = "admin_advance"
	MsgAdminPause     = "admin_pause"
	MsgAdminResume    = "admin_resume"
	MsgPing           = "ping"
)

// Inbound payloads.
type submitBidPayload struct {
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
}

type adminSellPayload struct {
	Item string `json:"item"`
}

type adminStartPoolPayload struct {
	Category   string `json:"category"`
	PoolNumber int    `json:"set"`
}

// opError is unicast to a caller whose admin operation was rejected.
type opError struct {
	Op      string `json:"op"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type userDisconnected struct {
	Username string `json:"username"`
}
