package hub

import (
	"context"
	"testing"
	"time"

	"github.com/Nikobrola/impasta-test/internal/engine"
	"github.com/Nikobrola/impasta-test/internal/room"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx)
	reply := make(chan *room.Room, 1)

	state := engine.NewLobbyState(engine.DefaultConfig())
	h.Inbox() <- CreateRoom{Code: "ABC123", State: state, Deps: engine.NewDeps(1), Reply: reply}
	r1 := <-reply

	h.Inbox() <- GetRoom{Code: "ABC123", Reply: reply}
	r2 := <-reply

	if r1 == nil || r2 == nil || r1 != r2 {
		t.Fatalf("expected same room pointer")
	}
}

func TestHub_Get_UnknownCodeIsNil(t *testing.T) {
	h := NewHub(context.Background())
	reply := make(chan *room.Room, 1)

	h.Inbox() <- GetRoom{Code: "NOSUCH", Reply: reply}
	if r := <-reply; r != nil {
		t.Fatalf("expected nil for unknown code, got %v", r)
	}
}

func TestHub_Ensure_CreatesOnce(t *testing.T) {
	h := NewHub(context.Background())
	reply := make(chan *room.Room, 1)

	state := engine.NewLobbyState(engine.DefaultConfig())
	h.Inbox() <- EnsureRoom{Code: "XYZ789", State: state, Deps: engine.NewDeps(1), Reply: reply}
	r1 := <-reply

	h.Inbox() <- EnsureRoom{Code: "XYZ789", State: state, Deps: engine.NewDeps(2), Reply: reply}
	r2 := <-reply

	if r1 != r2 {
		t.Fatalf("ensure must not replace a live room")
	}
}

func TestHub_Remove_ShutsRoomDown(t *testing.T) {
	h := NewHub(context.Background())
	reply := make(chan *room.Room, 1)

	state := engine.NewLobbyState(engine.DefaultConfig())
	h.Inbox() <- CreateRoom{Code: "GONE00", State: state, Deps: engine.NewDeps(1), Reply: reply}
	rm := <-reply

	out := make(chan room.Snapshot, 2)
	rm.Inbox() <- room.Join{ClientID: "c1", Player: engine.Player{ID: "P1", Name: "Ana"}, Outbox: out}
	<-out // join snapshot

	h.Inbox() <- RemoveRoom{Code: "GONE00"}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected closed outbox after room removal")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("room did not shut down after removal")
	}

	h.Inbox() <- GetRoom{Code: "GONE00", Reply: reply}
	if r := <-reply; r != nil {
		t.Fatalf("removed room still registered")
	}
}
