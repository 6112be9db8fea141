package memory_test

import (
	"fmt"
	"testing"

	"github.com/simplechat/backend/internal/model/chat"
	"github.com/simplechat/backend/internal/service/memory"
)

func TestRecordEvictsOldestBeyondCap(t *testing.T) {
	svc := memory.NewService()

	for i := 0; i < 15; i++ {
		svc.Record("alice", chat.Turn{Role: chat.RoleUser, Content: fmt.Sprintf("turn-%d", i)})
	}

	history := svc.History("alice")
	if len(history) != 10 {
		t.Fatalf("expected 10 turns, got %d", len(history))
	}
	if history[0].Content != "turn-5" {
		t.Fatalf("expected oldest surviving turn to be turn-5, got %q", history[0].Content)
	}
	if history[9].Content != "turn-14" {
		t.Fatalf("expected newest turn to be turn-14, got %q", history[9].Content)
	}
}

func TestHistoriesAreIsolatedPerIdentity(t *testing.T) {
	svc := memory.NewService()

	svc.Record("alice", chat.Turn{Role: chat.RoleUser, Content: "hi"})
	if len(svc.History("bob")) != 0 {
		t.Fatal("bob should have no history")
	}
}

func TestReset(t *testing.T) {
	svc := memory.NewService()

	svc.Record("alice", chat.Turn{Role: chat.RoleUser, Content: "hi"})
	svc.Reset("alice")
	if len(svc.History("alice")) != 0 {
		t.Fatal("expected empty history after Reset")
	}
}
