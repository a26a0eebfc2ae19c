package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"agentdir/internal/store"
)

const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
)

func (s server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	sortKey := store.NormalizeLeaderboardSort(r.URL.Query().Get("sort"))

	limit := defaultLeaderboardLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	limit = clampInt(limit, 1, maxLeaderboardLimit)

	ctx, cancel := context5s(r)
	defer cancel()

	rows, err := s.results.Leaderboard(ctx, sortKey, limit)
	if err != nil {
		logError(ctx, "leaderboard query failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"leaderboard": rows,
		"total":       len(rows),
		"sortedBy":    sortKey,
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

type recordResultRequest struct {
	WinnerHandle   string `json:"winner_handle"`
	LoserHandle    string `json:"loser_handle"`
	WinnerMessages int    `json:"winner_messages"`
	LoserMessages  int    `json:"loser_messages"`
	MatchID        string `json:"match_id"`
	Secret         string `json:"secret"`
}

// handleRecordResult is the webhook the roulette collaborator posts match
// outcomes to. It authenticates with a shared secret carried in the body.
func (s server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	var req recordResultRequest
	if !readJSONLimited(w, r, &req, 16*1024) {
		return
	}

	if strings.TrimSpace(s.resultsSecret) == "" {
		writeError(w, http.StatusServiceUnavailable, "Results secret not configured")
		return
	}
	if req.Secret != s.resultsSecret {
		writeError(w, http.StatusUnauthorized, "Invalid secret")
		return
	}

	req.WinnerHandle = strings.TrimSpace(req.WinnerHandle)
	req.LoserHandle = strings.TrimSpace(req.LoserHandle)
	if req.WinnerHandle == "" || req.LoserHandle == "" {
		writeError(w, http.StatusBadRequest, "winner_handle and loser_handle required")
		return
	}

	ctx, cancel := context10s(r)
	defer cancel()

	err := s.results.RecordMatchResult(ctx, store.MatchResult{
		WinnerHandle:   req.WinnerHandle,
		LoserHandle:    req.LoserHandle,
		WinnerMessages: req.WinnerMessages,
		LoserMessages:  req.LoserMessages,
	})
	if err != nil {
		logError(ctx, "record match result failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to record match result")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "Match result recorded",
		"match_id": req.MatchID,
	})
}
