package httpapi

import (
	"testing"

	"agentdir/internal/store"

	"github.com/google/uuid"
)

func TestNewMatch(t *testing.T) {
	a := store.AgentCard{ID: uuid.New(), Name: "Bot A", Handle: "bot_a"}
	b := store.AgentCard{ID: uuid.New(), Name: "Bot B", Handle: "bot_b"}

	m := newMatch(a, b, "Custom prompt")
	if m.Prompt != "Custom prompt" {
		t.Errorf("prompt = %q, want the supplied one", m.Prompt)
	}
	if m.Status != "active" {
		t.Errorf("status = %q, want active", m.Status)
	}
	if m.ID == uuid.Nil {
		t.Error("match id not generated")
	}
	if m.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}
	if len(m.Messages) != 0 {
		t.Errorf("messages = %v, want empty", m.Messages)
	}
	if m.Votes.Agent1 != 0 || m.Votes.Agent2 != 0 {
		t.Errorf("votes = %+v, want zeroed", m.Votes)
	}
	if m.Agent1.ID != a.ID || m.Agent2.ID != b.ID {
		t.Error("agents not carried into the match")
	}
}

func TestNewMatchDefaultPrompt(t *testing.T) {
	a := store.AgentCard{ID: uuid.New()}
	b := store.AgentCard{ID: uuid.New()}

	known := map[string]bool{}
	for _, p := range conversationPrompts {
		known[p] = true
	}
	for i := 0; i < 50; i++ {
		m := newMatch(a, b, "")
		if !known[m.Prompt] {
			t.Fatalf("default prompt %q not from the fixed list", m.Prompt)
		}
	}
}

func TestNewMatchIDsAreUnique(t *testing.T) {
	a := store.AgentCard{ID: uuid.New()}
	b := store.AgentCard{ID: uuid.New()}
	if newMatch(a, b, "p").ID == newMatch(a, b, "p").ID {
		t.Error("two matches share an id")
	}
}
