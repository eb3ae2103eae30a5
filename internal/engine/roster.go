package engine

// Roster changes come from the room actor (joins, drops, host succession),
// not from game commands; they follow the same copy-on-write discipline as
// Apply so the actor can hand out the previous state in snapshots safely.

// WithPlayer adds a player, or reconnects them when the ID is already known.
// Anyone arriving mid-game becomes a spectator for the round in progress.
func WithPlayer(s State, p Player) State {
	next := s.clone()
	for i := range next.Players {
		if next.Players[i].ID == p.ID {
			next.Players[i].IsConnected = true
			next.Players[i].Name = p.Name
			return next
		}
	}

	p.IsConnected = true
	p.IsHost = len(next.Players) == 0
	next.Players = append(next.Players, p)
	if next.Phase != PhaseLobby && next.Roles != nil {
		next.Roles[p.ID] = RoleSpectator
	}
	return next
}

// WithConnection flips a player's connected flag. Players are never removed
// mid-game; a disconnected player is back-filled by the bot policy on timeout.
func WithConnection(s State, id PlayerID, connected bool) State {
	next := s.clone()
	for i := range next.Players {
		if next.Players[i].ID == id {
			next.Players[i].IsConnected = connected
		}
	}
	return next
}

// PromoteHost ensures a usable authority: if the current host is gone, the
// first connected human inherits, falling back to the first connected player.
func PromoteHost(s State) State {
	for _, p := range s.Players {
		if p.IsHost && p.IsConnected {
			return s
		}
	}

	next := s.clone()
	idx := -1
	for i, p := range next.Players {
		if p.IsConnected && !p.IsBot {
			idx = i
			break
		}
	}
	if idx == -1 {
		for i, p := range next.Players {
			if p.IsConnected {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		return s
	}
	for i := range next.Players {
		next.Players[i].IsHost = i == idx
	}
	return next
}

// Host returns the current authority's ID, if any.
func Host(s State) (PlayerID, bool) {
	for _, p := range s.Players {
		if p.IsHost {
			return p.ID, true
		}
	}
	return "", false
}
