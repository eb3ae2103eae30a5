package engine

// roleHolders lists every player assigned the role this round, eliminated or
// not; a side that wins, wins as a side.
func roleHolders(s State, role Role) []PlayerID {
	var ids []PlayerID
	for _, p := range s.Players {
		if s.Roles[p.ID] == role {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// jesterWin checks the special case that preempts everything else: a jester
// eliminated by the deciding vote wins alone.
func jesterWin(s State, justEliminated []PlayerID) ([]PlayerID, WinnerType) {
	for _, id := range justEliminated {
		if s.Roles[id] == RoleJester {
			return []PlayerID{id}, WinnerJester
		}
	}
	return nil, WinnerNone
}

// DetermineWinner evaluates the mode's win conditions against the surviving
// roles. justEliminated is the set knocked out by the resolution that
// triggered this check; it only matters for the jester rule.
func DetermineWinner(s State, justEliminated []PlayerID) ([]PlayerID, WinnerType) {
	if winners, wt := jesterWin(s, justEliminated); wt == WinnerJester {
		return winners, wt
	}

	if s.activeCountByRole(RoleImpostor) > 0 {
		return roleHolders(s, RoleImpostor), WinnerImpostors
	}
	if s.activeCountByRole(RoleInnocent) > 0 || s.activeCountByRole(RoleJester) > 0 {
		return roleHolders(s, RoleInnocent), WinnerInnocents
	}
	return nil, WinnerNone
}
