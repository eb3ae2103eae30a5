package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nikobrola/impasta-test/internal/engine"
	"github.com/Nikobrola/impasta-test/internal/hub"
	"github.com/Nikobrola/impasta-test/internal/room"
	"github.com/Nikobrola/impasta-test/internal/types"
)

func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "missing name", http.StatusBadRequest)
			return
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		// Reconnects present their old player_id; fresh joins get a new one.
		playerID := engine.PlayerID(r.URL.Query().Get("player_id"))
		if playerID == "" {
			playerID = engine.PlayerID(uuid.New().String())
		}
		clientID := uuid.New().String()

		welcome, _ := json.Marshal(types.ServerMessage{Type: "Welcome", PlayerID: string(playerID)})
		_ = conn.Write(r.Context(), websocket.MessageText, welcome)

		out := make(chan room.Snapshot, 8)
		rm.Inbox() <- room.Join{
			ClientID: clientID,
			Player:   engine.Player{ID: playerID, Name: name},
			Outbox:   out,
		}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID, PlayerID: playerID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (room.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			cmd, ok := toEngineCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			zap.L().Debug("client command",
				zap.String("room_code", code),
				zap.String("player_id", string(playerID)),
				zap.String("cmd", string(cmd.Type)),
			)
			rm.Inbox() <- room.FromClient{
				PlayerID:        playerID,
				LastSeenVersion: cm.LastSeenVersion,
				Cmd:             cmd,
			}
		}
	}
}

func toEngineCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case "Configure":
		return engine.Command{Type: engine.CmdConfigure, Config: m.Config}, true
	case "StartRound":
		return engine.Command{Type: engine.CmdStartRound}, true
	case "SubmitAnswer":
		return engine.Command{Type: engine.CmdSubmitAnswer, Answer: m.Answer}, true
	case "CastVotes":
		targets := make([]engine.PlayerID, 0, len(m.Targets))
		for _, t := range m.Targets {
			targets = append(targets, engine.PlayerID(t))
		}
		return engine.Command{Type: engine.CmdCastVotes, Targets: targets}, true
	case "AdvancePhase":
		return engine.Command{Type: engine.CmdAdvancePhase}, true
	case "ContinueRound":
		return engine.Command{Type: engine.CmdContinueRound}, true
	case "FinishGame":
		return engine.Command{Type: engine.CmdFinishGame}, true
	case "PlayAgain":
		return engine.Command{Type: engine.CmdPlayAgain}, true
	default:
		return engine.Command{}, false
	}
}
