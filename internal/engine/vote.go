package engine

import (
	"math/rand"
	"sort"
)

type OutcomeKind string

const (
	OutcomeEliminate  OutcomeKind = "eliminate"
	OutcomeTieBreaker OutcomeKind = "tieBreaker"
	OutcomeGameEnd    OutcomeKind = "gameEnd"
	OutcomeDeferred   OutcomeKind = "deferred"
)

// Outcome is a resolver verdict. Eliminated always lists the players knocked
// out by this resolution, including the already-decided cohort eliminated
// alongside an unresolved tie.
type Outcome struct {
	Kind       OutcomeKind
	Eliminated []PlayerID
	Tied       []PlayerID
	Winners    []PlayerID
	WinnerType WinnerType
}

// candidates returns who may be voted for this round: the tied cohort during
// a tie-breaker, otherwise every active player.
func (s State) candidates() []PlayerID {
	if s.IsTieVote {
		out := make([]PlayerID, 0, len(s.TiedPlayers))
		for _, id := range s.TiedPlayers {
			if s.isActive(id) {
				out = append(out, id)
			}
		}
		return out
	}
	return s.activePlayerIDs()
}

// tally counts votes per candidate. Candidates with zero votes stay in the
// map at zero; ballots naming non-candidates are dropped.
func tally(s State, candidates []PlayerID) map[PlayerID]int {
	counts := make(map[PlayerID]int, len(candidates))
	for _, id := range candidates {
		counts[id] = 0
	}
	for voter, targets := range s.Votes {
		if !s.isActive(voter) {
			continue
		}
		for _, target := range targets {
			if _, ok := counts[target]; ok {
				counts[target]++
			}
		}
	}
	return counts
}

// sortByVotes orders candidates by descending count, breaking count ties by
// ID so resolution is a pure function of the tally.
func sortByVotes(counts map[PlayerID]int) []PlayerID {
	ids := make([]PlayerID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

// ResolveStandard settles a fixed-round vote. The round owes
// impostorCount - alreadyEliminatedThisRound eliminations; rather than naively
// slicing the top N, it partitions on the vote count at rank N so a candidate
// tied with Nth place but sorted below it is still contested.
func ResolveStandard(s State) Outcome {
	candidates := s.candidates()
	counts := tally(s, candidates)

	owed := s.Config.ImpostorCount - len(s.EliminatedThisRound)
	if owed <= 0 {
		return Outcome{Kind: OutcomeEliminate}
	}

	// Defensive: with fewer live voters than owed eliminations the tally
	// cannot be decisive yet. Completeness gating makes this unreachable.
	if len(s.activePlayerIDs()) < owed || len(candidates) < owed {
		return Outcome{Kind: OutcomeDeferred}
	}

	ranked := sortByVotes(counts)
	threshold := counts[ranked[owed-1]]

	var above, contested []PlayerID
	for _, id := range ranked {
		switch {
		case counts[id] > threshold:
			above = append(above, id)
		case counts[id] == threshold:
			contested = append(contested, id)
		}
	}

	if len(above)+len(contested) > owed {
		// The contested cohort overflows the budget: the strictly-above
		// candidates are already decided, the rest go to a tie-breaker.
		return Outcome{Kind: OutcomeTieBreaker, Eliminated: above, Tied: contested}
	}

	return Outcome{Kind: OutcomeEliminate, Eliminated: ranked[:owed]}
}

// forceBreakTie is the UnresolvableTie fallback: after the bounded number of
// tie-breaker rounds, the remaining eliminations are drawn at random from the
// tied cohort instead of looping forever.
func forceBreakTie(s State, out Outcome, rng *rand.Rand) Outcome {
	need := s.votesNeeded()
	if s.Config.Mode != ModeStandard {
		need = 1
	}
	need -= len(out.Eliminated)
	if need > len(out.Tied) {
		need = len(out.Tied)
	}

	eliminated := append([]PlayerID(nil), out.Eliminated...)
	for _, i := range rng.Perm(len(out.Tied))[:need] {
		eliminated = append(eliminated, out.Tied[i])
	}
	return Outcome{Kind: OutcomeEliminate, Eliminated: eliminated}
}

// tieBreakerExhausted bounds tie-breaker repetition: the cohort shrinks every
// round it settles anything, so |players| rounds is already more than any
// converging sequence needs.
func (s State) tieBreakerExhausted() bool {
	return len(s.TieBreakerRounds) >= len(s.Players)
}
