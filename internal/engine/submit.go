package engine

// Submission merging never replaces the answers/votes maps wholesale: each
// call writes exactly one player's entry into a fresh copy of the map. Two
// merges for different players therefore commute, and a re-merge for the same
// player overwrites only that player's own entry. This is what keeps
// concurrent submissions from clobbering each other when they race through
// the room inbox.

// MergeAnswer records one player's answer. The caller is responsible for
// checking the phase first; this only enforces submitter eligibility.
func MergeAnswer(s State, id PlayerID, answer string) (State, error) {
	if !s.isActive(id) {
		return s, ErrIneligibleSubmitter
	}
	next := s
	next.Answers = cloneStringMap(s.Answers)
	if next.Answers == nil {
		next.Answers = make(map[PlayerID]string)
	}
	next.Submitted = cloneBoolMap(s.Submitted)
	if next.Submitted == nil {
		next.Submitted = make(map[PlayerID]bool)
	}
	next.Answers[id] = answer
	next.Submitted[id] = true
	return next, nil
}

// MergeVotes records one player's ballot list. Duplicate targets collapse to
// one and the list is capped at the round's votesNeeded, so a single client
// cannot stuff the tally. Target eligibility is not checked here; the
// resolvers drop votes for ineligible candidates at tally time.
func MergeVotes(s State, id PlayerID, targets []PlayerID) (State, error) {
	if !s.isActive(id) {
		return s, ErrIneligibleSubmitter
	}

	ballot := make([]PlayerID, 0, len(targets))
	seen := make(map[PlayerID]bool, len(targets))
	for _, t := range targets {
		if seen[t] {
			continue
		}
		seen[t] = true
		ballot = append(ballot, t)
		if len(ballot) == s.votesNeeded() {
			break
		}
	}

	next := s
	next.Votes = cloneVoteMap(s.Votes)
	if next.Votes == nil {
		next.Votes = make(map[PlayerID][]PlayerID)
	}
	next.Votes[id] = ballot
	return next, nil
}

// AnswersComplete is true once every active player has an answer on record.
// Bot entries are expected to be backfilled before this is evaluated.
func AnswersComplete(s State) bool {
	for _, id := range s.activePlayerIDs() {
		if !s.Submitted[id] {
			return false
		}
	}
	return true
}

func VotesComplete(s State) bool {
	for _, id := range s.activePlayerIDs() {
		if _, ok := s.Votes[id]; !ok {
			return false
		}
	}
	return true
}
