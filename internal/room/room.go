package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Nikobrola/impasta-test/internal/engine"
)

type Msg interface{ isRoomMsg() }

// Join registers a connection's outbox and adds (or reconnects) the player.
type Join struct {
	ClientID string
	Player   engine.Player
	Outbox   chan Snapshot
}

func (Join) isRoomMsg() {}

type Leave struct {
	ClientID string
	PlayerID engine.PlayerID
}

func (Leave) isRoomMsg() {}

// FromClient carries a decoded engine command plus the snapshot version the
// client had seen when it issued it. Phase-transition commands from a stale
// view are discarded; submissions merge regardless.
type FromClient struct {
	PlayerID        engine.PlayerID
	LastSeenVersion int
	Cmd             engine.Command
}

func (FromClient) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetState reflects internal state without data races; used by tests.
type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type timerFired struct {
	Gen   int
	Phase engine.Phase
}

func (timerFired) isRoomMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

type View struct {
	Version    int
	NumClients int
	State      engine.State
}

// revealSeconds covers the two short informational phases that have no
// configurable countdown of their own.
const revealSeconds = 10

// Room is the single authority for one game: a goroutine that owns the state
// document and the monotonically increasing snapshot version. Client commands,
// timer fires, and roster changes all funnel through one inbox, so there is
// never a second writer to race against.
type Room struct {
	code    string
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Snapshot
	deps    engine.Deps

	timer      *time.Timer
	timerGen   int
	armedPhase engine.Phase

	ctx    context.Context
	cancel context.CancelFunc
}

func NewRoom(parent context.Context, code string, initial engine.State, deps engine.Deps) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		state:   initial,
		version: 0,
		clients: make(map[string]chan Snapshot),
		deps:    deps,
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.state = engine.WithPlayer(r.state, msg.Player)
				r.clients[msg.ClientID] = msg.Outbox
				r.version++
				r.broadcast()
				zap.L().Info("player joined",
					zap.String("room_code", r.code),
					zap.String("player_id", string(msg.Player.ID)),
					zap.Int("version", r.version),
				)

			case Leave:
				if ch, ok := r.clients[msg.ClientID]; ok {
					close(ch)
					delete(r.clients, msg.ClientID)
				}
				r.state = engine.WithConnection(r.state, msg.PlayerID, false)
				r.state = engine.PromoteHost(r.state)
				r.version++
				r.broadcast()
				zap.L().Info("player left",
					zap.String("room_code", r.code),
					zap.String("player_id", string(msg.PlayerID)),
				)

			case FromClient:
				r.handleCommand(msg)

			case timerFired:
				if msg.Gen != r.timerGen {
					// A fire from a timer armed for an earlier phase.
					continue
				}
				r.apply(engine.Command{Type: engine.CmdTimeoutAdvance, Phase: msg.Phase})

			case GetState:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					State:      r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

// transitionCommands are authority-gated: the issuer must hold the host seat
// and must have seen the current version. Submissions are exempt — they merge
// field-level and cannot conflict (see engine.MergeAnswer/MergeVotes).
var transitionCommands = map[engine.CommandType]bool{
	engine.CmdConfigure:     true,
	engine.CmdStartRound:    true,
	engine.CmdAdvancePhase:  true,
	engine.CmdContinueRound: true,
	engine.CmdFinishGame:    true,
	engine.CmdPlayAgain:     true,
}

func (r *Room) handleCommand(msg FromClient) {
	cmd := msg.Cmd
	cmd.PlayerID = msg.PlayerID

	if transitionCommands[cmd.Type] && msg.LastSeenVersion < r.version {
		// The issuer acted on an outdated snapshot. Drop it; the next
		// broadcast reconciles their view and they can retry.
		zap.L().Debug("stale transition dropped",
			zap.String("room_code", r.code),
			zap.String("player_id", string(msg.PlayerID)),
			zap.String("cmd", string(cmd.Type)),
			zap.Int("seen_version", msg.LastSeenVersion),
			zap.Int("version", r.version),
		)
		return
	}

	r.apply(cmd)
}

func (r *Room) apply(cmd engine.Command) {
	events, newState, err := engine.Apply(r.state, cmd, r.deps)
	if err != nil {
		// Recoverable by design: the sender's next snapshot carries truth.
		zap.L().Debug("command rejected",
			zap.String("room_code", r.code),
			zap.String("cmd", string(cmd.Type)),
			zap.String("phase", string(r.state.Phase)),
			zap.Error(err),
		)
		return
	}

	r.state = newState
	r.version++
	r.broadcast()

	for _, ev := range events {
		if ev.Type == engine.EvtPhaseAdvanced {
			r.armTimer(ev.Phase)
		}
		if ev.Type == engine.EvtGameEnded {
			zap.L().Info("game ended",
				zap.String("room_code", r.code),
				zap.String("winner_type", string(ev.WinnerType)),
			)
		}
	}
}

// armTimer (re)arms the countdown for a phase that waits on player action.
// The generation counter makes a late fire from a superseded timer a no-op.
func (r *Room) armTimer(phase engine.Phase) {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.timerGen++
	r.armedPhase = phase

	var secs int
	switch phase {
	case engine.PhaseQuestions, engine.PhaseRoleReveal:
		secs = revealSeconds
	case engine.PhaseAnswers:
		secs = r.state.Config.AnswerTimerSec
	case engine.PhaseDiscussion:
		secs = r.state.Config.DiscussTimerSec
	case engine.PhaseVoting:
		secs = r.state.Config.VoteTimerSec
	default:
		return
	}
	if secs <= 0 {
		secs = 1
	}

	gen := r.timerGen
	r.timer = time.AfterFunc(time.Duration(secs)*time.Second, func() {
		select {
		case r.inbox <- timerFired{Gen: gen, Phase: phase}:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) broadcast() {
	snap := Snapshot{Version: r.version, State: r.state}
	for id, ch := range r.clients {
		select {
		case ch <- snap:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
			zap.L().Warn("dropped slow client",
				zap.String("room_code", r.code),
				zap.String("client_id", id),
			)
		}
	}
}

func (r *Room) shutdown() {
	if r.timer != nil {
		r.timer.Stop()
	}
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}
