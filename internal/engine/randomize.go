package engine

// ResolveRandomize settles one open-ended round: exactly one elimination, or
// a tie-breaker among everyone sharing the maximum count. Words mode runs the
// same resolution; only the prompts handed out at round start differ.
func ResolveRandomize(s State) Outcome {
	candidates := s.candidates()
	if len(candidates) == 0 || len(s.activePlayerIDs()) < 1 {
		return Outcome{Kind: OutcomeDeferred}
	}

	counts := tally(s, candidates)
	ranked := sortByVotes(counts)
	max := counts[ranked[0]]

	var leaders []PlayerID
	for _, id := range ranked {
		if counts[id] == max {
			leaders = append(leaders, id)
		}
	}

	if len(leaders) > 1 {
		// Tied rounds eliminate nobody.
		return Outcome{Kind: OutcomeTieBreaker, Tied: leaders}
	}
	return Outcome{Kind: OutcomeEliminate, Eliminated: leaders[:1]}
}

// autoEndRandomize checks the forced-termination rules after an elimination:
// two or fewer players left, or one side wiped out, ends the game without a
// host action.
func autoEndRandomize(s State, justEliminated []PlayerID) ([]PlayerID, WinnerType, bool) {
	if winners, wt := jesterWin(s, justEliminated); wt == WinnerJester {
		return winners, wt, true
	}

	impostorsLeft := s.activeCountByRole(RoleImpostor)
	innocentsLeft := s.activeCountByRole(RoleInnocent)

	switch {
	case impostorsLeft == 0:
		return roleHolders(s, RoleInnocent), WinnerInnocents, true
	case innocentsLeft == 0:
		return roleHolders(s, RoleImpostor), WinnerImpostors, true
	case len(s.activePlayerIDs()) <= 2:
		// An impostor among the last two cannot be outvoted.
		return roleHolders(s, RoleImpostor), WinnerImpostors, true
	}
	return nil, WinnerNone, false
}
