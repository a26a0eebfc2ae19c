package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"agentdir/internal/store"

	"github.com/google/uuid"
)

// directoryStore is the agents repository as the handlers consume it. The
// pgx-backed *store.Store is the one production implementation.
type directoryStore interface {
	CreateAgent(ctx context.Context, in store.NewAgent) (store.CreatedAgent, error)
	AgentByID(ctx context.Context, id uuid.UUID) (store.Agent, error)
	ListAgents(ctx context.Context, status string) ([]store.AgentSummary, error)
	ListAllAgents(ctx context.Context) ([]store.Agent, error)
	ListPendingAgents(ctx context.Context) ([]store.Agent, error)
	SetAgentStatus(ctx context.Context, id uuid.UUID, status string) (store.Agent, error)
	DeleteAgent(ctx context.Context, id uuid.UUID) (store.DeletedAgent, error)
	RandomApprovedPair(ctx context.Context) (store.AgentCard, store.AgentCard, error)
	ApprovedPair(ctx context.Context, id1, id2 uuid.UUID) (store.AgentCard, store.AgentCard, error)
	DirectorySummary(ctx context.Context) (store.DirectorySummary, error)
}

type resultsStore interface {
	RecordMatchResult(ctx context.Context, res store.MatchResult) error
	Leaderboard(ctx context.Context, sortKey string, limit int) ([]store.LeaderboardRow, error)
}

type schemaStore interface {
	Initialize(ctx context.Context) error
	Ready(ctx context.Context) (bool, error)
}

type server struct {
	agents  directoryStore
	results resultsStore
	schema  schemaStore

	adminToken    string
	resultsSecret string
}

// Query timeouts: reads get 5s, writes and transactions 10s.
func context5s(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

func context10s(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logErrorNoCtx("writeJSON encode failed", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func readJSONLimited(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := readJSON(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (s server) adminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(s.adminToken) == "" {
			writeError(w, http.StatusServiceUnavailable, "Admin token not configured")
			return
		}
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if token != s.adminToken {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}
