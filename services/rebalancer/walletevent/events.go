package walletevent

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventType is a string topic consumers subscribe to on the service feed.
type EventType string

// Event is published on the rebalancer feed at every lifecycle transition.
// Message carries a JSON payload whose shape depends on the event type.
type Event struct {
	Type     EventType        `json:"type"`
	ChainID  uint64           `json:"chainId"`
	Accounts []common.Address `json:"accounts"`
	At       int64            `json:"at"`
	Message  string           `json:"message,omitempty"`
}

func New(eventType EventType, chainID uint64, accounts ...common.Address) Event {
	return Event{
		Type:     eventType,
		ChainID:  chainID,
		Accounts: accounts,
		At:       time.Now().Unix(),
	}
}

// WithPayload attaches a JSON-encoded payload. Encoding failures leave the
// message empty rather than failing the emit.
func (e Event) WithPayload(payload interface{}) Event {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return e
	}
	e.Message = string(encoded)
	return e
}
