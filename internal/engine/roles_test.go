package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func testPlayers(n int) []Player {
	players := make([]Player, 0, n)
	for i := 1; i <= n; i++ {
		id := PlayerID(fmt.Sprintf("P%d", i))
		players = append(players, Player{ID: id, Name: string(id), IsHost: i == 1, IsConnected: true})
	}
	return players
}

func TestAssignRoles_CountInvariant(t *testing.T) {
	cases := []struct {
		name      string
		players   int
		impostors int
		jester    bool
	}{
		{name: "five players one impostor", players: 5, impostors: 1},
		{name: "eight players two impostors", players: 8, impostors: 2},
		{name: "six players one impostor with jester", players: 6, impostors: 1, jester: true},
		{name: "ten players three impostors with jester", players: 10, impostors: 3, jester: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ImpostorCount = tc.impostors
			cfg.HasJester = tc.jester

			roles, err := AssignRoles(testPlayers(tc.players), cfg, rand.New(rand.NewSource(7)))
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(roles) != tc.players {
				t.Fatalf("want %d roles, got %d", tc.players, len(roles))
			}

			counts := map[Role]int{}
			for _, r := range roles {
				counts[r]++
			}
			if counts[RoleImpostor] != tc.impostors {
				t.Fatalf("want %d impostors, got %d", tc.impostors, counts[RoleImpostor])
			}
			wantJesters := 0
			if tc.jester {
				wantJesters = 1
			}
			if counts[RoleJester] != wantJesters {
				t.Fatalf("want %d jesters, got %d", wantJesters, counts[RoleJester])
			}
			if counts[RoleInnocent] != tc.players-tc.impostors-wantJesters {
				t.Fatalf("unexpected innocent count %d", counts[RoleInnocent])
			}
		})
	}
}

func TestAssignRoles_DeterministicWithSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImpostorCount = 2
	cfg.HasJester = true
	players := testPlayers(7)

	first, err := AssignRoles(players, cfg, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := AssignRoles(players, cfg, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed produced different assignments:\n%v\n%v", first, second)
	}
}

func TestAssignRoles_InvalidConfiguration(t *testing.T) {
	cases := []struct {
		name      string
		players   int
		impostors int
		jester    bool
	}{
		{name: "impostors fill the room", players: 3, impostors: 3},
		{name: "impostors plus jester fill the room", players: 3, impostors: 2, jester: true},
		{name: "zero impostors", players: 5, impostors: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ImpostorCount = tc.impostors
			cfg.HasJester = tc.jester

			_, err := AssignRoles(testPlayers(tc.players), cfg, rand.New(rand.NewSource(1)))
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("want ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestAssignRoles_EliminatedBecomeSpectators(t *testing.T) {
	players := testPlayers(6)
	players[4].IsEliminated = true

	cfg := DefaultConfig()
	roles, err := AssignRoles(players, cfg, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if roles["P5"] != RoleSpectator {
		t.Fatalf("eliminated player should spectate, got %v", roles["P5"])
	}
}
