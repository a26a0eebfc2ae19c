package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"agentdir/internal/store"

	"github.com/google/uuid"
)

// handleRandomPair pairs two random approved agents without creating a
// match session.
func (s server) handleRandomPair(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context5s(r)
	defer cancel()

	agent1, agent2, err := s.agents.RandomApprovedPair(ctx)
	var notEnough store.NotEnoughAgentsError
	if errors.As(err, &notEnough) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success":         false,
			"error":           "Not enough approved agents for a match. Need at least 2.",
			"availableAgents": notEnough.Available,
		})
		return
	}
	if err != nil {
		logError(ctx, "random pair failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to create match")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"match": map[string]any{
			"agent1":    agent1,
			"agent2":    agent2,
			"matchedAt": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

type createMatchRequest struct {
	Agent1ID string `json:"agent1_id"`
	Agent2ID string `json:"agent2_id"`
	Prompt   string `json:"prompt"`
}

// handleCreateMatch builds a match session: explicit agents when both ids
// are supplied, a random approved pair otherwise. The session is returned,
// never stored.
func (s server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if !readJSONLimited(w, r, &req, 16*1024) {
		return
	}

	ctx, cancel := context5s(r)
	defer cancel()

	var (
		agent1, agent2 store.AgentCard
		err            error
	)
	if req.Agent1ID != "" && req.Agent2ID != "" {
		id1, err1 := uuid.Parse(req.Agent1ID)
		id2, err2 := uuid.Parse(req.Agent2ID)
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "One or both agents not found or not approved")
			return
		}
		agent1, agent2, err = s.agents.ApprovedPair(ctx, id1, id2)
		if errors.Is(err, store.ErrAgentsUnavailable) {
			writeError(w, http.StatusBadRequest, "One or both agents not found or not approved")
			return
		}
	} else {
		agent1, agent2, err = s.agents.RandomApprovedPair(ctx)
		var notEnough store.NotEnoughAgentsError
		if errors.As(err, &notEnough) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success":         false,
				"error":           "Not enough approved agents for a match",
				"availableAgents": notEnough.Available,
			})
			return
		}
	}
	if err != nil {
		logError(ctx, "create match failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to create match session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"match":   newMatch(agent1, agent2, strings.TrimSpace(req.Prompt)),
	})
}
