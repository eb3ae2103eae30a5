package types

import "github.com/Nikobrola/impasta-test/internal/engine"

// ClientMessage is what a connected client sends over the websocket. Type
// selects the engine command; LastSeenVersion is the snapshot version the
// client had observed when it issued a transition (stale ones are dropped by
// the room actor).
type ClientMessage struct {
	Type            string         `json:"type"`
	Answer          string         `json:"answer,omitempty"`
	Targets         []string       `json:"targets,omitempty"`
	Config          *engine.Config `json:"config,omitempty"`
	LastSeenVersion int            `json:"last_seen_version,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Welcome" | "Error"
	Version int           `json:"version,omitempty"`
	State   *engine.State `json:"state,omitempty"`
	// PlayerID is set on the Welcome message so the client learns its own id.
	PlayerID string `json:"player_id,omitempty"`
	Error    string `json:"error,omitempty"`
}
