package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/pokertables/internal/game"
)

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeAction   MessageType = "action"
	MessageTypeGetTable MessageType = "get_table"

	// Server to client messages
	MessageTypeTable MessageType = "table"
	MessageTypeError MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// ErrorData is the body of every error response, over HTTP or WebSocket.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Action is a player decision on the wire. It accepts a bare name ("Fold",
// "check"), a single-key object ({"Raise": 10}) or an explicit object
// ({"kind": "raise", "amount": 10}).
type Action struct {
	game.Action
	set bool
}

// IsSet reports whether an action was decoded.
func (a Action) IsSet() bool { return a.set }

// UnmarshalJSON implements json.Unmarshaler.
func (a *Action) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		kind, err := game.ParseActionKind(name)
		if err != nil {
			return err
		}
		if kind == game.Raise {
			return fmt.Errorf("%w: raise needs an amount", game.ErrInvalidAmount)
		}
		a.Action, a.set = game.Action{Kind: kind}, true
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %s", game.ErrUnknownAction, data)
	}

	if rawKind, ok := obj["kind"]; ok {
		var name string
		if err := json.Unmarshal(rawKind, &name); err != nil {
			return fmt.Errorf("%w: kind must be a string", game.ErrUnknownAction)
		}
		kind, err := game.ParseActionKind(name)
		if err != nil {
			return err
		}
		var amount int
		if rawAmount, ok := obj["amount"]; ok {
			if err := json.Unmarshal(rawAmount, &amount); err != nil {
				return fmt.Errorf("%w: amount must be an integer", game.ErrInvalidAmount)
			}
		}
		a.Action, a.set = game.Action{Kind: kind, Amount: amount}, true
		return nil
	}

	if len(obj) != 1 {
		return fmt.Errorf("%w: %s", game.ErrUnknownAction, data)
	}
	for name, rawAmount := range obj {
		kind, err := game.ParseActionKind(name)
		if err != nil {
			return err
		}
		var amount int
		if err := json.Unmarshal(rawAmount, &amount); err != nil {
			return fmt.Errorf("%w: amount must be an integer", game.ErrInvalidAmount)
		}
		a.Action, a.set = game.Action{Kind: kind, Amount: amount}, true
	}
	return nil
}

// MarshalJSON implements json.Marshaler using the explicit object form.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string `json:"kind"`
		Amount int    `json:"amount,omitempty"`
	}{a.Kind.String(), a.Amount})
}

// HTTP request bodies.

type keyRequest struct {
	Key string `json:"key"`
}

type createRequest struct {
	Name          string `json:"name"`
	TableName     string `json:"table_name,omitempty"`
	MinimalBid    int    `json:"minimal_bid,omitempty"`
	MaxPlayers    int    `json:"max_players,omitempty"`
	StartingChips int    `json:"starting_chips,omitempty"`
}

type createResponse struct {
	TableID string `json:"table_id"`
	Key     string `json:"key"`
}

type joinRequest struct {
	Name  string `json:"name"`
	Table string `json:"table"`
}

type joinResponse struct {
	Key string `json:"key"`
}

type editRequest struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	MinimalBid    int    `json:"minimal_bid"`
	MaxPlayers    int    `json:"max_players"`
	StartingChips int    `json:"starting_chips"`
}

type actionRequest struct {
	Key    string `json:"key"`
	Action Action `json:"action"`
}

type findResponse struct {
	Table string `json:"table"`
}

// actionData is the payload of a MessageTypeAction WebSocket message.
type actionData struct {
	Action Action `json:"action"`
}
