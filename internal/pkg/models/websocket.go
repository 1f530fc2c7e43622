package models

import "encoding/json"

// WSMessage is the envelope for every server to client websocket frame
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// WSErrorMessage is the payload of an error event
type WSErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
