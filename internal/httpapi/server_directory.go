package httpapi

import (
	"net/http"
	"time"
)

func (s server) handleDirectoryStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context5s(r)
	defer cancel()

	summary, err := s.agents.DirectorySummary(ctx)
	if err != nil {
		logError(ctx, "directory stats failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"stats":       summary,
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s server) handleSetupStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context5s(r)
	defer cancel()

	ready, err := s.schema.Ready(ctx)
	if err != nil {
		logError(ctx, "setup status check failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to check database status")
		return
	}

	message := "Database needs initialization. POST to /api/setup"
	if ready {
		message = "Database is ready!"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"initialized": ready,
		"message":     message,
	})
}

func (s server) handleSetupInit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context10s(r)
	defer cancel()

	if err := s.schema.Initialize(ctx); err != nil {
		logError(ctx, "setup init failed", err)
		writeError(w, http.StatusInternalServerError, "Failed to setup database")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Database initialized successfully! 🚀",
	})
}
