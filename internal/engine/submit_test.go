package engine

import (
	"errors"
	"reflect"
	"testing"
)

// answersState is a round mid-answers: five innocents, fresh maps.
func answersState(n int) State {
	s := NewLobbyState(DefaultConfig())
	s.Players = testPlayers(n)
	s.Roles = make(map[PlayerID]Role, n)
	for _, p := range s.Players {
		s.Roles[p.ID] = RoleInnocent
	}
	s.Phase = PhaseAnswers
	s.Round = 1
	return s
}

func TestMergeAnswer_CommutesAcrossPlayers(t *testing.T) {
	s := answersState(5)

	ab, err := MergeAnswer(s, "P1", "alpha")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ab, err = MergeAnswer(ab, "P2", "beta")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	ba, _ := MergeAnswer(s, "P2", "beta")
	ba, _ = MergeAnswer(ba, "P1", "alpha")

	if !reflect.DeepEqual(ab, ba) {
		t.Fatalf("merge order changed the result:\n%+v\n%+v", ab, ba)
	}
}

func TestMergeVotes_CommutesAcrossPlayers(t *testing.T) {
	s := answersState(4)
	s.Phase = PhaseVoting

	ab, _ := MergeVotes(s, "P1", []PlayerID{"P2"})
	ab, _ = MergeVotes(ab, "P3", []PlayerID{"P2"})

	ba, _ := MergeVotes(s, "P3", []PlayerID{"P2"})
	ba, _ = MergeVotes(ba, "P1", []PlayerID{"P2"})

	if !reflect.DeepEqual(ab, ba) {
		t.Fatalf("merge order changed the result:\n%+v\n%+v", ab, ba)
	}
}

func TestMergeAnswer_ResubmissionOverwritesOwnEntryOnly(t *testing.T) {
	s := answersState(5)

	twice, _ := MergeAnswer(s, "P1", "first try")
	twice, _ = MergeAnswer(twice, "P1", "final answer")

	once, _ := MergeAnswer(s, "P1", "final answer")

	if !reflect.DeepEqual(twice, once) {
		t.Fatalf("resubmission is not idempotent:\n%+v\n%+v", twice, once)
	}
	if twice.Answers["P1"] != "final answer" {
		t.Fatalf("own entry not overwritten: %q", twice.Answers["P1"])
	}
}

func TestMerge_RejectsIneligibleSubmitters(t *testing.T) {
	s := answersState(5)
	s.Players[2].IsEliminated = true
	s.Roles["P4"] = RoleSpectator

	cases := []struct {
		name string
		id   PlayerID
	}{
		{name: "eliminated player", id: "P3"},
		{name: "spectator", id: "P4"},
		{name: "unknown id", id: "nobody"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := MergeAnswer(s, tc.id, "sneaky")
			if !errors.Is(err, ErrIneligibleSubmitter) {
				t.Fatalf("want ErrIneligibleSubmitter, got %v", err)
			}
			if !reflect.DeepEqual(next, s) {
				t.Fatalf("rejected merge mutated state")
			}
			if _, verr := MergeVotes(s, tc.id, []PlayerID{"P1"}); !errors.Is(verr, ErrIneligibleSubmitter) {
				t.Fatalf("want ErrIneligibleSubmitter for votes, got %v", verr)
			}
		})
	}
}

func TestMergeVotes_DedupesAndCapsBallot(t *testing.T) {
	s := votingState(6, 2, nil)

	// Two eliminations owed, so two ballots per voter; duplicates collapse
	// and anything past the cap is ignored.
	s, err := MergeVotes(s, "P1", []PlayerID{"P2", "P2", "P3", "P4"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(s.Votes["P1"], []PlayerID{"P2", "P3"}) {
		t.Fatalf("want ballot [P2 P3], got %v", s.Votes["P1"])
	}
}

func TestMergeVotes_StuffedBallotCannotOutvoteMajority(t *testing.T) {
	s := votingState(5, 1, nil)

	var err error
	for _, voter := range []PlayerID{"P2", "P3", "P4", "P5"} {
		s, err = MergeVotes(s, voter, []PlayerID{"P1"})
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	s, err = MergeVotes(s, "P1", []PlayerID{"P2", "P2", "P2", "P2", "P2"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(s.Votes["P1"], []PlayerID{"P2"}) {
		t.Fatalf("repeated target should count once, got %v", s.Votes["P1"])
	}

	out := ResolveStandard(s)
	if out.Kind != OutcomeEliminate {
		t.Fatalf("want eliminate, got %v", out.Kind)
	}
	if !reflect.DeepEqual(out.Eliminated, []PlayerID{"P1"}) {
		t.Fatalf("four honest votes must beat one stuffed ballot, got %v", out.Eliminated)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	s := answersState(3)
	before, _ := MergeAnswer(s, "P1", "original")

	after, _ := MergeAnswer(before, "P2", "other")
	if len(before.Answers) != 1 {
		t.Fatalf("merge mutated the input state's map: %+v", before.Answers)
	}
	if len(after.Answers) != 2 {
		t.Fatalf("merge result missing entries: %+v", after.Answers)
	}
}

func TestCompleteness(t *testing.T) {
	s := answersState(3)
	s.Players[2].IsEliminated = true

	if AnswersComplete(s) {
		t.Fatalf("empty round should not be complete")
	}

	s, _ = MergeAnswer(s, "P1", "a")
	s, _ = MergeAnswer(s, "P2", "b")
	if !AnswersComplete(s) {
		t.Fatalf("all active players answered; eliminated P3 must not count")
	}

	s.Phase = PhaseVoting
	s, _ = MergeVotes(s, "P1", []PlayerID{"P2"})
	if VotesComplete(s) {
		t.Fatalf("P2 has not voted yet")
	}
	s, _ = MergeVotes(s, "P2", []PlayerID{"P1"})
	if !VotesComplete(s) {
		t.Fatalf("all active players voted")
	}
}
