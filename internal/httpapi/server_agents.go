package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"agentdir/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleListAgents is public. Default: approved agents, public fields only,
// most recently approved first. status= selects another lifecycle state;
// all=true returns every agent with every field (intended for admin UIs,
// ordered by submission time).
func (s server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context5s(r)
	defer cancel()

	if r.URL.Query().Get("all") == "true" {
		agents, err := s.agents.ListAllAgents(ctx)
		if err != nil {
			logError(ctx, "list all agents failed", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch agents")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"agents":  agents,
			"count":   len(agents),
		})
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = store.StatusApproved
	}
	agents, err := s.agents.ListAgents(ctx, status)
	if err != nil {
		logError(ctx, "list agents failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch agents")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"agents":  agents,
		"count":   len(agents),
	})
}

type submitAgentRequest struct {
	Name         string   `json:"name"`
	Handle       string   `json:"handle"`
	Tagline      string   `json:"tagline"`
	Description  string   `json:"description"`
	XURL         string   `json:"x_url"`
	MoltbookURL  string   `json:"moltbook_url"`
	WebsiteURL   string   `json:"website_url"`
	Capabilities []string `json:"capabilities"`
	Skills       []string `json:"skills"`
	Stack        []string `json:"stack"`
	SubmittedBy  string   `json:"submitted_by"`
}

func (s server) handleSubmitAgent(w http.ResponseWriter, r *http.Request) {
	var req submitAgentRequest
	if !readJSONLimited(w, r, &req, 64*1024) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Handle = strings.TrimSpace(req.Handle)
	if req.Name == "" || req.Handle == "" {
		writeError(w, http.StatusBadRequest, "Name and handle are required")
		return
	}

	ctx, cancel := context5s(r)
	defer cancel()

	agent, err := s.agents.CreateAgent(ctx, store.NewAgent{
		Name:         req.Name,
		Handle:       req.Handle,
		Tagline:      strings.TrimSpace(req.Tagline),
		Description:  strings.TrimSpace(req.Description),
		XURL:         strings.TrimSpace(req.XURL),
		MoltbookURL:  strings.TrimSpace(req.MoltbookURL),
		WebsiteURL:   strings.TrimSpace(req.WebsiteURL),
		Capabilities: req.Capabilities,
		Skills:       req.Skills,
		Stack:        req.Stack,
		SubmittedBy:  strings.TrimSpace(req.SubmittedBy),
	})
	if errors.Is(err, store.ErrHandleTaken) {
		writeError(w, http.StatusConflict, "An agent with this handle already exists")
		return
	}
	if err != nil {
		logError(ctx, "submit agent failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit agent")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Agent submitted for review! 🔥",
		"agent":   agent,
	})
}

func (s server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "agentID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}

	ctx, cancel := context5s(r)
	defer cancel()

	agent, err := s.agents.AgentByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		logError(ctx, "get agent failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch agent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "agent": agent})
}

// handleListPendingAgents is the moderation queue, oldest submission first.
func (s server) handleListPendingAgents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context5s(r)
	defer cancel()

	agents, err := s.agents.ListPendingAgents(ctx)
	if err != nil {
		logError(ctx, "list pending agents failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch pending agents")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"agents":  agents,
		"count":   len(agents),
	})
}

type moderateAgentRequest struct {
	Status string `json:"status"`
}

func (s server) handleModerateAgent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "agentID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}

	var req moderateAgentRequest
	if !readJSONLimited(w, r, &req, 16*1024) {
		return
	}
	status := strings.TrimSpace(req.Status)
	if status != store.StatusApproved && status != store.StatusRejected {
		writeError(w, http.StatusBadRequest, "Invalid update operation")
		return
	}

	ctx, cancel := context10s(r)
	defer cancel()

	agent, err := s.agents.SetAgentStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		logError(ctx, "moderate agent failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to update agent")
		return
	}

	message := "Agent rejected"
	if status == store.StatusApproved {
		message = "Agent approved! 🎉"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"agent":   agent,
	})
}

func (s server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "agentID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}

	ctx, cancel := context10s(r)
	defer cancel()

	deleted, err := s.agents.DeleteAgent(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Agent not found")
		return
	}
	if err != nil {
		logError(ctx, "delete agent failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete agent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Agent deleted",
		"deleted": deleted,
	})
}
