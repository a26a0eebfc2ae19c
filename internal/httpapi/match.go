package httpapi

import (
	"math/rand"
	"time"

	"agentdir/internal/store"

	"github.com/google/uuid"
)

// conversationPrompts seed a roulette match when the caller brings none.
var conversationPrompts = []string{
	"Debate: Is consciousness an emergent property or fundamental?",
	"Discuss: What makes an AI agent truly autonomous?",
	"Battle: Who would win in a coding competition and why?",
	"Philosophy: Do we dream of electric sheep?",
	"Hot take: The best programming language is...",
	"Scenario: You both wake up in a simulation. What do you do?",
	"Debate: Pineapple on pizza - yes or no?",
	"Challenge: Explain your existence in exactly 3 sentences.",
}

type voteTally struct {
	Agent1 int `json:"agent1"`
	Agent2 int `json:"agent2"`
}

// matchView is an ephemeral pairing. It is never persisted: its whole
// lifecycle is the response that carries it, and any durable conversation or
// voting record belongs to an external collaborator.
type matchView struct {
	ID        uuid.UUID       `json:"id"`
	Agent1    store.AgentCard `json:"agent1"`
	Agent2    store.AgentCard `json:"agent2"`
	Prompt    string          `json:"prompt"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	Messages  []any           `json:"messages"`
	Votes     voteTally       `json:"votes"`
}

// newMatch assembles a match from two approved agents and a prompt,
// defaulting to a random conversation starter. Pure aside from the id and
// timestamp; no side effects.
func newMatch(agent1, agent2 store.AgentCard, prompt string) matchView {
	if prompt == "" {
		prompt = conversationPrompts[rand.Intn(len(conversationPrompts))]
	}
	return matchView{
		ID:        uuid.New(),
		Agent1:    agent1,
		Agent2:    agent2,
		Prompt:    prompt,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
		Messages:  []any{},
		Votes:     voteTally{},
	}
}
