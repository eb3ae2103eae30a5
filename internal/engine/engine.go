package engine

import "math/rand"

type CommandType string

const (
	CmdConfigure      CommandType = "Configure"
	CmdStartRound     CommandType = "StartRound"
	CmdSubmitAnswer   CommandType = "SubmitAnswer"
	CmdCastVotes      CommandType = "CastVotes"
	CmdAdvancePhase   CommandType = "AdvancePhase"
	CmdTimeoutAdvance CommandType = "TimeoutAdvance"
	CmdContinueRound  CommandType = "ContinueRound"
	CmdFinishGame     CommandType = "FinishGame"
	CmdPlayAgain      CommandType = "PlayAgain"
)

type Command struct {
	Type     CommandType
	PlayerID PlayerID
	Answer   string
	Targets  []PlayerID
	Config   *Config
	// Phase is only set on TimeoutAdvance: the phase the timer was armed
	// for. A fire that arrives after the phase moved on is a no-op.
	Phase Phase
}

type EventType string

const (
	EvtConfigured        EventType = "Configured"
	EvtRolesAssigned     EventType = "RolesAssigned"
	EvtPhaseAdvanced     EventType = "PhaseAdvanced"
	EvtAnswerSubmitted   EventType = "AnswerSubmitted"
	EvtVotesCast         EventType = "VotesCast"
	EvtPlayersEliminated EventType = "PlayersEliminated"
	EvtTieBreakerStarted EventType = "TieBreakerStarted"
	EvtRoundContinued    EventType = "RoundContinued"
	EvtGameEnded         EventType = "GameEnded"
)

type Event struct {
	Type       EventType
	PlayerID   PlayerID
	Players    []PlayerID
	Phase      Phase
	WinnerType WinnerType
}

// Deps carries the injected collaborators Apply needs: the random source
// (role draws, bot ballots, forced tie picks), the bot policy, and the prompt
// source. A fixed seed makes the whole engine deterministic.
type Deps struct {
	Rand    *rand.Rand
	Bots    BotPolicy
	Prompts PromptSource
}

func NewDeps(seed int64) Deps {
	return Deps{
		Rand:    rand.New(rand.NewSource(seed)),
		Bots:    DefaultBots(),
		Prompts: DefaultPrompts(),
	}
}

// Apply is the single transition function: given a state and a command it
// returns the events that happened, the next state, and an error when the
// command must be rejected. It never mutates its input, so a failed command
// leaves the caller's state untouched.
func Apply(s State, cmd Command, deps Deps) ([]Event, State, error) {
	next := s.clone()

	switch cmd.Type {
	case CmdConfigure:
		if !next.isHost(cmd.PlayerID) {
			return nil, s, ErrNotAuthority
		}
		if next.Phase != PhaseLobby {
			return nil, s, ErrPhaseMismatch
		}
		if cmd.Config == nil {
			return nil, s, ErrUnsupportedCommand
		}
		next.Config = *cmd.Config
		return []Event{{Type: EvtConfigured}}, next, nil

	case CmdStartRound:
		if !next.isHost(cmd.PlayerID) {
			return nil, s, ErrNotAuthority
		}
		if next.Phase != PhaseLobby {
			return nil, s, ErrPhaseMismatch
		}
		roles, err := AssignRoles(next.Players, next.Config, deps.Rand)
		if err != nil {
			return nil, s, err
		}
		next.Roles = roles
		next.Round = 1
		next.Prompt, next.ImpostorPrompt = deps.Prompts.Draw(deps.Rand, next.Config.Mode)

		first := PhaseQuestions
		if next.Config.Mode == ModeWords {
			// Words mode shows the word on the role card directly.
			first = PhaseRoleReveal
		}
		events := []Event{{Type: EvtRolesAssigned}}
		var evs []Event
		next, evs = advanceTo(next, first, deps)
		return append(events, evs...), next, nil

	case CmdSubmitAnswer:
		if next.Phase != PhaseAnswers {
			return nil, s, ErrPhaseMismatch
		}
		var err error
		next, err = MergeAnswer(next, cmd.PlayerID, cmd.Answer)
		if err != nil {
			return nil, s, err
		}
		events := []Event{{Type: EvtAnswerSubmitted, PlayerID: cmd.PlayerID}}
		if AnswersComplete(next) {
			var evs []Event
			next, evs = advanceTo(next, PhaseDiscussion, deps)
			events = append(events, evs...)
		}
		return events, next, nil

	case CmdCastVotes:
		if next.Phase != PhaseVoting {
			return nil, s, ErrPhaseMismatch
		}
		var err error
		next, err = MergeVotes(next, cmd.PlayerID, cmd.Targets)
		if err != nil {
			return nil, s, err
		}
		events := []Event{{Type: EvtVotesCast, PlayerID: cmd.PlayerID}}
		var evs []Event
		next, evs = maybeResolve(next, deps)
		return append(events, evs...), next, nil

	case CmdAdvancePhase:
		if !next.isHost(cmd.PlayerID) {
			return nil, s, ErrNotAuthority
		}
		return advanceCurrent(next, s, deps)

	case CmdTimeoutAdvance:
		if cmd.Phase != next.Phase {
			// Stale timer fire; the phase already moved on.
			return nil, s, nil
		}
		return advanceCurrent(next, s, deps)

	case CmdContinueRound:
		if !next.isHost(cmd.PlayerID) {
			return nil, s, ErrNotAuthority
		}
		if next.Phase != PhaseVoteResults || next.Config.Mode == ModeStandard || next.WinnerType != WinnerNone {
			return nil, s, ErrPhaseMismatch
		}
		next.Round++
		next.EliminatedThisRound = nil
		next.IsTieVote = false
		next.TiedPlayers = nil
		next.OriginalVotes = nil
		next.TieBreakerRounds = nil
		next.Votes = nil
		events := []Event{{Type: EvtRoundContinued}}
		var evs []Event
		next, evs = advanceTo(next, PhaseDiscussion, deps)
		return append(events, evs...), next, nil

	case CmdFinishGame:
		if !next.isHost(cmd.PlayerID) {
			return nil, s, ErrNotAuthority
		}
		if next.Phase == PhaseLobby || next.Phase == PhaseResults {
			return nil, s, ErrPhaseMismatch
		}
		next.Winners, next.WinnerType = DetermineWinner(next, nil)
		next.Phase = PhaseResults
		return []Event{
			{Type: EvtGameEnded, Players: next.Winners, WinnerType: next.WinnerType},
			{Type: EvtPhaseAdvanced, Phase: PhaseResults},
		}, next, nil

	case CmdPlayAgain:
		if !next.isHost(cmd.PlayerID) {
			return nil, s, ErrNotAuthority
		}
		if next.Phase != PhaseResults {
			return nil, s, ErrPhaseMismatch
		}
		next = resetRoundFields(next)
		return []Event{{Type: EvtPhaseAdvanced, Phase: PhaseLobby}}, next, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// advanceCurrent moves the machine one step from whatever phase it is in,
// backfilling bot/missing submissions so the step can complete. Shared by the
// host's explicit advance and the countdown timers.
func advanceCurrent(next, prev State, deps Deps) ([]Event, State, error) {
	switch next.Phase {
	case PhaseQuestions:
		var evs []Event
		next, evs = advanceTo(next, PhaseRoleReveal, deps)
		return evs, next, nil

	case PhaseRoleReveal:
		var evs []Event
		next, evs = advanceTo(next, PhaseAnswers, deps)
		return evs, next, nil

	case PhaseAnswers:
		// Back-fill every missing answer (slow humans included) so the
		// round keeps moving.
		for _, id := range next.activePlayerIDs() {
			if !next.Submitted[id] {
				next, _ = MergeAnswer(next, id, deps.Bots.GenerateAnswer(deps.Rand))
			}
		}
		var evs []Event
		next, evs = advanceTo(next, PhaseDiscussion, deps)
		return evs, next, nil

	case PhaseDiscussion:
		var evs []Event
		next, evs = advanceTo(next, PhaseVoting, deps)
		return evs, next, nil

	case PhaseVoting:
		next = backfillVotes(next, next.activePlayerIDs(), deps)
		var evs []Event
		next, evs = maybeResolve(next, deps)
		return evs, next, nil

	case PhaseVoteResults:
		if next.Config.Mode != ModeStandard && next.WinnerType == WinnerNone {
			return nil, prev, ErrPhaseMismatch
		}
		next.Phase = PhaseResults
		return []Event{{Type: EvtPhaseAdvanced, Phase: PhaseResults}}, next, nil

	default:
		return nil, prev, ErrPhaseMismatch
	}
}

// advanceTo commits a phase transition and runs the target's entry behavior.
func advanceTo(s State, target Phase, deps Deps) (State, []Event) {
	if !s.Phase.CanTransitionTo(target) {
		return s, nil
	}
	s.Phase = target
	events := []Event{{Type: EvtPhaseAdvanced, Phase: target}}

	switch target {
	case PhaseAnswers:
		s.Answers = make(map[PlayerID]string)
		s.Submitted = make(map[PlayerID]bool)
		for _, p := range s.Players {
			if p.IsBot && s.isActive(p.ID) {
				s, _ = MergeAnswer(s, p.ID, deps.Bots.GenerateAnswer(deps.Rand))
			}
		}
		if AnswersComplete(s) {
			var evs []Event
			s, evs = advanceTo(s, PhaseDiscussion, deps)
			events = append(events, evs...)
		}
	case PhaseVoting:
		s.Votes = make(map[PlayerID][]PlayerID)
		s = backfillBotVotes(s, deps)
		var evs []Event
		s, evs = maybeResolve(s, deps)
		events = append(events, evs...)
	}
	return s, events
}

func backfillBotVotes(s State, deps Deps) State {
	var bots []PlayerID
	for _, p := range s.Players {
		if p.IsBot && s.isActive(p.ID) {
			bots = append(bots, p.ID)
		}
	}
	return backfillVotes(s, bots, deps)
}

func backfillVotes(s State, voters []PlayerID, deps Deps) State {
	eligible := s.activePlayerIDs()
	for _, id := range voters {
		if _, ok := s.Votes[id]; ok {
			continue
		}
		ballots := deps.Bots.GenerateVotes(deps.Rand, id, eligible, s.votesNeeded(), s.TiedPlayers)
		s, _ = MergeVotes(s, id, ballots)
	}
	return s
}

// maybeResolve runs vote resolution for as long as the ballot set is complete
// and the machine stays in voting. A tie-breaker among bot-only voters
// resolves again immediately; the exhaustion bound guarantees the loop ends.
func maybeResolve(s State, deps Deps) (State, []Event) {
	var events []Event

	for s.Phase == PhaseVoting && VotesComplete(s) && len(s.activePlayerIDs()) > 0 {
		var out Outcome
		if s.Config.Mode == ModeStandard {
			out = ResolveStandard(s)
		} else {
			out = ResolveRandomize(s)
		}

		if out.Kind == OutcomeTieBreaker && s.tieBreakerExhausted() {
			out = forceBreakTie(s, out, deps.Rand)
		}

		switch out.Kind {
		case OutcomeDeferred:
			return s, events

		case OutcomeTieBreaker:
			snap := VoteSnapshot{Votes: cloneVoteMap(s.Votes), Tally: tally(s, s.candidates())}
			if !s.IsTieVote {
				s.OriginalVotes = cloneVoteMap(s.Votes)
			}
			s.TieBreakerRounds = append(s.TieBreakerRounds, snap)

			// Candidates strictly above the contested threshold are already
			// decided; they go out now, in this same round.
			for _, id := range out.Eliminated {
				s = s.eliminate(id)
			}
			if len(out.Eliminated) > 0 {
				events = append(events, Event{Type: EvtPlayersEliminated, Players: out.Eliminated})
			}

			s.IsTieVote = true
			s.TiedPlayers = append([]PlayerID(nil), out.Tied...)
			s.Votes = make(map[PlayerID][]PlayerID)
			s = backfillBotVotes(s, deps)

			events = append(events,
				Event{Type: EvtTieBreakerStarted, Players: out.Tied},
				Event{Type: EvtPhaseAdvanced, Phase: PhaseVoting},
			)

		case OutcomeEliminate:
			for _, id := range out.Eliminated {
				s = s.eliminate(id)
			}
			if len(out.Eliminated) > 0 {
				events = append(events, Event{Type: EvtPlayersEliminated, Players: out.Eliminated})
			}
			s.IsTieVote = false
			s.TiedPlayers = nil

			if s.Config.Mode == ModeStandard {
				s.Winners, s.WinnerType = DetermineWinner(s, s.EliminatedThisRound)
				s.Phase = PhaseVoteResults
				events = append(events,
					Event{Type: EvtPhaseAdvanced, Phase: PhaseVoteResults},
					Event{Type: EvtGameEnded, Players: s.Winners, WinnerType: s.WinnerType},
				)
			} else {
				winners, wt, ended := autoEndRandomize(s, s.EliminatedThisRound)
				s.Phase = PhaseVoteResults
				events = append(events, Event{Type: EvtPhaseAdvanced, Phase: PhaseVoteResults})
				if ended {
					s.Winners, s.WinnerType = winners, wt
					events = append(events, Event{Type: EvtGameEnded, Players: winners, WinnerType: wt})
				}
			}
			return s, events
		}
	}
	return s, events
}
