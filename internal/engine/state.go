package engine

// PlayerID is the opaque stable identity of a participant. The room hands
// these out on join; they survive elimination and reconnects.
type PlayerID string

type Role string

const (
	RoleInnocent  Role = "innocent"
	RoleImpostor  Role = "impostor"
	RoleJester    Role = "jester"
	RoleSpectator Role = "spectator"
)

type Mode string

const (
	ModeStandard  Mode = "standard"
	ModeWords     Mode = "words"
	ModeRandomize Mode = "randomize"
)

type WinnerType string

const (
	WinnerNone      WinnerType = "none"
	WinnerInnocents WinnerType = "innocents"
	WinnerImpostors WinnerType = "impostors"
	WinnerJester    WinnerType = "jester"
)

type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhaseQuestions   Phase = "questions"
	PhaseRoleReveal  Phase = "roleReveal"
	PhaseAnswers     Phase = "answers"
	PhaseDiscussion  Phase = "discussion"
	PhaseVoting      Phase = "voting"
	PhaseVoteResults Phase = "voteResults"
	PhaseResults     Phase = "results"
)

// phaseTransitions is the closed transition table. The voting self-loop is the
// tie-breaker round; voteResults -> discussion is the randomize-mode
// continuation; results -> lobby is "play again".
var phaseTransitions = map[Phase][]Phase{
	PhaseLobby:       {PhaseQuestions, PhaseRoleReveal},
	PhaseQuestions:   {PhaseRoleReveal},
	PhaseRoleReveal:  {PhaseAnswers},
	PhaseAnswers:     {PhaseDiscussion},
	PhaseDiscussion:  {PhaseVoting},
	PhaseVoting:      {PhaseVoting, PhaseVoteResults},
	PhaseVoteResults: {PhaseResults, PhaseDiscussion},
	PhaseResults:     {PhaseLobby},
}

func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range phaseTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

type Player struct {
	ID           PlayerID `json:"id"`
	Name         string   `json:"name"`
	IsHost       bool     `json:"isHost"`
	IsBot        bool     `json:"isBot"`
	IsEliminated bool     `json:"isEliminated"`
	IsConnected  bool     `json:"isConnected"`
}

type Config struct {
	Mode            Mode `json:"mode"`
	ImpostorCount   int  `json:"impostorCount"`
	HasJester       bool `json:"hasJester"`
	AnswerTimerSec  int  `json:"answerTimerSec"`
	DiscussTimerSec int  `json:"discussTimerSec"`
	VoteTimerSec    int  `json:"voteTimerSec"`
}

func DefaultConfig() Config {
	return Config{
		Mode:            ModeStandard,
		ImpostorCount:   1,
		HasJester:       false,
		AnswerTimerSec:  60,
		DiscussTimerSec: 120,
		VoteTimerSec:    30,
	}
}

// VoteSnapshot freezes one voting round's ballots and tally so tie-breaker
// history can be replayed by the UI.
type VoteSnapshot struct {
	Votes map[PlayerID][]PlayerID `json:"votes"`
	Tally map[PlayerID]int        `json:"tally"`
}

// State is the full game document for one room. Every participant observes it
// only through versioned snapshots; the room actor is the sole writer.
type State struct {
	Phase  Phase  `json:"phase"`
	Round  int    `json:"round"`
	Config Config `json:"config"`

	Players []Player `json:"players"`

	Roles          map[PlayerID]Role `json:"roles,omitempty"`
	Prompt         string            `json:"prompt,omitempty"`
	ImpostorPrompt string            `json:"impostorPrompt,omitempty"`

	Answers   map[PlayerID]string     `json:"answers,omitempty"`
	Submitted map[PlayerID]bool       `json:"submitted,omitempty"`
	Votes     map[PlayerID][]PlayerID `json:"votes,omitempty"`

	Eliminated          []PlayerID `json:"eliminated,omitempty"`
	EliminatedThisRound []PlayerID `json:"eliminatedThisRound,omitempty"`

	IsTieVote        bool                    `json:"isTieVote"`
	TiedPlayers      []PlayerID              `json:"tiedPlayers,omitempty"`
	OriginalVotes    map[PlayerID][]PlayerID `json:"originalVotes,omitempty"`
	TieBreakerRounds []VoteSnapshot          `json:"tieBreakerRounds,omitempty"`

	Winners    []PlayerID `json:"winners,omitempty"`
	WinnerType WinnerType `json:"winnerType"`
}

func NewLobbyState(cfg Config) State {
	return State{
		Phase:      PhaseLobby,
		Round:      0,
		Config:     cfg,
		Players:    []Player{},
		WinnerType: WinnerNone,
	}
}

// resetRoundFields clears everything scoped to a single game, preserving the
// roster and config. Used on "play again"; an explicit constructor instead of
// field-by-field spreads so a new optional field cannot be forgotten.
func resetRoundFields(s State) State {
	next := NewLobbyState(s.Config)
	next.Players = make([]Player, len(s.Players))
	copy(next.Players, s.Players)
	for i := range next.Players {
		next.Players[i].IsEliminated = false
	}
	return next
}

// clone returns a deep copy so Apply can mutate freely while the caller's
// state stays untouched.
func (s State) clone() State {
	next := s
	next.Players = append([]Player(nil), s.Players...)
	next.Roles = cloneRoleMap(s.Roles)
	next.Answers = cloneStringMap(s.Answers)
	next.Submitted = cloneBoolMap(s.Submitted)
	next.Votes = cloneVoteMap(s.Votes)
	next.Eliminated = append([]PlayerID(nil), s.Eliminated...)
	next.EliminatedThisRound = append([]PlayerID(nil), s.EliminatedThisRound...)
	next.TiedPlayers = append([]PlayerID(nil), s.TiedPlayers...)
	next.OriginalVotes = cloneVoteMap(s.OriginalVotes)
	next.TieBreakerRounds = append([]VoteSnapshot(nil), s.TieBreakerRounds...)
	next.Winners = append([]PlayerID(nil), s.Winners...)
	return next
}

func cloneRoleMap(m map[PlayerID]Role) map[PlayerID]Role {
	if m == nil {
		return nil
	}
	out := make(map[PlayerID]Role, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStringMap(m map[PlayerID]string) map[PlayerID]string {
	if m == nil {
		return nil
	}
	out := make(map[PlayerID]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneBoolMap(m map[PlayerID]bool) map[PlayerID]bool {
	if m == nil {
		return nil
	}
	out := make(map[PlayerID]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneVoteMap(m map[PlayerID][]PlayerID) map[PlayerID][]PlayerID {
	if m == nil {
		return nil
	}
	out := make(map[PlayerID][]PlayerID, len(m))
	for k, v := range m {
		out[k] = append([]PlayerID(nil), v...)
	}
	return out
}

func (s State) playerByID(id PlayerID) (Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (s State) isHost(id PlayerID) bool {
	p, ok := s.playerByID(id)
	return ok && p.IsHost
}

// isActive reports whether a player may submit answers, cast votes, and be
// voted for: present, not eliminated, and not a spectator.
func (s State) isActive(id PlayerID) bool {
	p, ok := s.playerByID(id)
	if !ok || p.IsEliminated {
		return false
	}
	return s.Roles[id] != RoleSpectator
}

func (s State) activePlayerIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(s.Players))
	for _, p := range s.Players {
		if s.isActive(p.ID) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (s State) activeCountByRole(role Role) int {
	n := 0
	for _, p := range s.Players {
		if !p.IsEliminated && s.Roles[p.ID] == role {
			n++
		}
	}
	return n
}

func (s State) eliminate(id PlayerID) State {
	for i := range s.Players {
		if s.Players[i].ID == id && !s.Players[i].IsEliminated {
			s.Players[i].IsEliminated = true
			s.Eliminated = append(s.Eliminated, id)
			s.EliminatedThisRound = append(s.EliminatedThisRound, id)
		}
	}
	return s
}

// votesNeeded is how many ballots each voter casts this round: the remaining
// elimination budget in standard mode, always one otherwise.
func (s State) votesNeeded() int {
	if s.Config.Mode != ModeStandard {
		return 1
	}
	n := s.Config.ImpostorCount - len(s.EliminatedThisRound)
	if n < 1 {
		n = 1
	}
	return n
}
