package engine

import "math/rand"

// AssignRoles draws the hidden-role mapping for a round: impostorCount
// impostors, one jester if configured, innocents for the rest. Players already
// eliminated (or flagged spectator by an earlier round) are mapped to
// spectator so the submission trackers can skip them.
//
// The caller supplies the random source, so a fixed seed yields a fixed
// assignment.
func AssignRoles(players []Player, cfg Config, rng *rand.Rand) (map[PlayerID]Role, error) {
	eligible := make([]PlayerID, 0, len(players))
	for _, p := range players {
		if !p.IsEliminated {
			eligible = append(eligible, p.ID)
		}
	}

	special := cfg.ImpostorCount
	if cfg.HasJester {
		special++
	}
	if cfg.ImpostorCount < 1 || special >= len(eligible) {
		return nil, ErrInvalidConfiguration
	}

	roles := make(map[PlayerID]Role, len(players))
	for _, p := range players {
		if p.IsEliminated {
			roles[p.ID] = RoleSpectator
		} else {
			roles[p.ID] = RoleInnocent
		}
	}

	perm := rng.Perm(len(eligible))
	for i := 0; i < cfg.ImpostorCount; i++ {
		roles[eligible[perm[i]]] = RoleImpostor
	}
	if cfg.HasJester {
		roles[eligible[perm[cfg.ImpostorCount]]] = RoleJester
	}

	return roles, nil
}
