package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"agentdir/internal/store"

	"github.com/google/uuid"
)

var errFake = errors.New("store failure")

// fakeStore is an in-memory stand-in for *store.Store so handler tests can
// run against the real router without Postgres. Setting err makes every
// method fail with it.
type fakeStore struct {
	agents      []store.Agent
	leaderboard []store.LeaderboardRow
	recorded    []store.MatchResult
	initialized bool
	err         error
}

func (f *fakeStore) CreateAgent(_ context.Context, in store.NewAgent) (store.CreatedAgent, error) {
	if f.err != nil {
		return store.CreatedAgent{}, f.err
	}
	for _, a := range f.agents {
		if a.Handle == in.Handle {
			return store.CreatedAgent{}, store.ErrHandleTaken
		}
	}
	a := store.Agent{
		ID:        uuid.New(),
		Name:      in.Name,
		Handle:    in.Handle,
		Status:    store.StatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.agents = append(f.agents, a)
	return store.CreatedAgent{ID: a.ID, Name: a.Name, Handle: a.Handle, Status: a.Status, CreatedAt: a.CreatedAt}, nil
}

func (f *fakeStore) AgentByID(_ context.Context, id uuid.UUID) (store.Agent, error) {
	if f.err != nil {
		return store.Agent{}, f.err
	}
	for _, a := range f.agents {
		if a.ID == id {
			return a, nil
		}
	}
	return store.Agent{}, store.ErrNotFound
}

func (f *fakeStore) ListAgents(_ context.Context, status string) ([]store.AgentSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []store.AgentSummary{}
	for _, a := range f.agents {
		if a.Status != status {
			continue
		}
		out = append(out, store.AgentSummary{
			ID: a.ID, Name: a.Name, Handle: a.Handle,
			CreatedAt: a.CreatedAt, ApprovedAt: a.ApprovedAt,
		})
	}
	return out, nil
}

func (f *fakeStore) ListAllAgents(_ context.Context) ([]store.Agent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]store.Agent{}, f.agents...), nil
}

func (f *fakeStore) ListPendingAgents(_ context.Context) ([]store.Agent, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []store.Agent{}
	for _, a := range f.agents {
		if a.Status == store.StatusPending {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) SetAgentStatus(_ context.Context, id uuid.UUID, status string) (store.Agent, error) {
	if f.err != nil {
		return store.Agent{}, f.err
	}
	if status != store.StatusApproved && status != store.StatusRejected {
		return store.Agent{}, store.ErrInvalidStatus
	}
	for i := range f.agents {
		if f.agents[i].ID != id {
			continue
		}
		f.agents[i].Status = status
		if status == store.StatusApproved {
			now := time.Now().UTC()
			f.agents[i].ApprovedAt = &now
		}
		return f.agents[i], nil
	}
	return store.Agent{}, store.ErrNotFound
}

func (f *fakeStore) DeleteAgent(_ context.Context, id uuid.UUID) (store.DeletedAgent, error) {
	if f.err != nil {
		return store.DeletedAgent{}, f.err
	}
	for i, a := range f.agents {
		if a.ID == id {
			f.agents = append(f.agents[:i], f.agents[i+1:]...)
			return store.DeletedAgent{ID: a.ID, Name: a.Name, Handle: a.Handle}, nil
		}
	}
	return store.DeletedAgent{}, store.ErrNotFound
}

func (f *fakeStore) approvedCards() []store.AgentCard {
	out := []store.AgentCard{}
	for _, a := range f.agents {
		if a.Status == store.StatusApproved {
			out = append(out, store.AgentCard{ID: a.ID, Name: a.Name, Handle: a.Handle})
		}
	}
	return out
}

func (f *fakeStore) RandomApprovedPair(_ context.Context) (store.AgentCard, store.AgentCard, error) {
	if f.err != nil {
		return store.AgentCard{}, store.AgentCard{}, f.err
	}
	cards := f.approvedCards()
	if len(cards) < 2 {
		return store.AgentCard{}, store.AgentCard{}, store.NotEnoughAgentsError{Available: len(cards)}
	}
	return cards[0], cards[1], nil
}

func (f *fakeStore) ApprovedPair(_ context.Context, id1, id2 uuid.UUID) (store.AgentCard, store.AgentCard, error) {
	if f.err != nil {
		return store.AgentCard{}, store.AgentCard{}, f.err
	}
	byID := map[uuid.UUID]store.AgentCard{}
	for _, c := range f.approvedCards() {
		byID[c.ID] = c
	}
	a1, ok1 := byID[id1]
	a2, ok2 := byID[id2]
	if !ok1 || !ok2 || id1 == id2 {
		return store.AgentCard{}, store.AgentCard{}, store.ErrAgentsUnavailable
	}
	return a1, a2, nil
}

func (f *fakeStore) DirectorySummary(_ context.Context) (store.DirectorySummary, error) {
	if f.err != nil {
		return store.DirectorySummary{}, f.err
	}
	sum := store.DirectorySummary{LatestApproved: []store.ApprovedHighlight{}}
	for _, a := range f.agents {
		sum.TotalAgents++
		switch a.Status {
		case store.StatusApproved:
			sum.ApprovedAgents++
		case store.StatusPending:
			sum.PendingAgents++
		case store.StatusRejected:
			sum.RejectedAgents++
		}
	}
	return sum, nil
}

func (f *fakeStore) RecordMatchResult(_ context.Context, res store.MatchResult) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, res)
	return nil
}

func (f *fakeStore) Leaderboard(_ context.Context, _ string, limit int) ([]store.LeaderboardRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	rows := f.leaderboard
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return append([]store.LeaderboardRow{}, rows...), nil
}

func (f *fakeStore) Initialize(_ context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.initialized = true
	return nil
}

func (f *fakeStore) Ready(_ context.Context) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.initialized, nil
}

const (
	testAdminToken    = "test-admin-token"
	testResultsSecret = "test-results-secret"
)

func newTestRouter(f *fakeStore) http.Handler {
	return newRouter(server{
		agents:        f,
		results:       f,
		schema:        f,
		adminToken:    testAdminToken,
		resultsSecret: testResultsSecret,
	}, 100000)
}

func seedAgent(f *fakeStore, name, handle, status string) store.Agent {
	a := store.Agent{
		ID:        uuid.New(),
		Name:      name,
		Handle:    handle,
		Status:    status,
		CreatedAt: time.Now().UTC().Add(-time.Duration(len(f.agents)) * time.Minute),
		UpdatedAt: time.Now().UTC(),
	}
	if status == store.StatusApproved {
		now := time.Now().UTC()
		a.ApprovedAt = &now
	}
	f.agents = append(f.agents, a)
	return a
}

func doJSON(t *testing.T, h http.Handler, method, target, body string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func adminHeader() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+testAdminToken)
	return h
}
