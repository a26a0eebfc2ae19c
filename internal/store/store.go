// Package store holds all durable state of the directory: the agents table
// with its moderation lifecycle and the per-handle match statistics behind
// the leaderboard. Everything is parameterized SQL against Postgres; the
// HTTP layer above it keeps no state between requests.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Agent moderation states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrHandleTaken       = errors.New("handle already taken")
	ErrInvalidStatus     = errors.New("status must be approved or rejected")
	ErrAgentsUnavailable = errors.New("one or both agents not found or not approved")
)

// NotEnoughAgentsError reports how many approved agents actually exist when
// a random pairing needs two.
type NotEnoughAgentsError struct {
	Available int
}

func (e NotEnoughAgentsError) Error() string {
	return fmt.Sprintf("not enough approved agents: have %d, need 2", e.Available)
}

// Agent is the full directory record, including moderation-only fields.
type Agent struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Handle       string     `json:"handle"`
	Tagline      *string    `json:"tagline"`
	Description  *string    `json:"description"`
	XURL         *string    `json:"x_url"`
	MoltbookURL  *string    `json:"moltbook_url"`
	WebsiteURL   *string    `json:"website_url"`
	Capabilities []string   `json:"capabilities"`
	Skills       []string   `json:"skills"`
	Stack        []string   `json:"stack"`
	Status       string     `json:"status"`
	SubmittedBy  *string    `json:"submitted_by"`
	CreatedAt    time.Time  `json:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AgentSummary is the public listing shape: no submitted_by, no status.
type AgentSummary struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Handle       string     `json:"handle"`
	Tagline      *string    `json:"tagline"`
	Description  *string    `json:"description"`
	XURL         *string    `json:"x_url"`
	MoltbookURL  *string    `json:"moltbook_url"`
	WebsiteURL   *string    `json:"website_url"`
	Capabilities []string   `json:"capabilities"`
	Skills       []string   `json:"skills"`
	Stack        []string   `json:"stack"`
	CreatedAt    time.Time  `json:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at"`
}

// AgentCard is the compact shape paired into roulette matches.
type AgentCard struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Handle       string    `json:"handle"`
	Tagline      *string   `json:"tagline"`
	Description  *string   `json:"description"`
	XURL         *string   `json:"x_url"`
	Capabilities []string  `json:"capabilities"`
}

// NewAgent carries a submission. Name and Handle are validated by the
// caller; everything else is optional.
type NewAgent struct {
	Name         string
	Handle       string
	Tagline      string
	Description  string
	XURL         string
	MoltbookURL  string
	WebsiteURL   string
	Capabilities []string
	Skills       []string
	Stack        []string
	SubmittedBy  string
}

// CreatedAgent is what a successful submission returns.
type CreatedAgent struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Handle    string    `json:"handle"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// DeletedAgent identifies a removed row.
type DeletedAgent struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Handle string    `json:"handle"`
}

// MatchResult is one recorded debate outcome.
type MatchResult struct {
	WinnerHandle   string
	LoserHandle    string
	WinnerMessages int
	LoserMessages  int
}

// LeaderboardRow is one ranked entry. Name, Tagline and XURL come from a
// left join on the agents table and stay nil for handles with no directory
// entry. WinRate and Badges are derived at query time.
type LeaderboardRow struct {
	Handle        string     `json:"handle"`
	TotalDebates  int        `json:"total_debates"`
	Wins          int        `json:"wins"`
	Losses        int        `json:"losses"`
	MessagesSent  int        `json:"messages_sent"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastMatchAt   *time.Time `json:"last_match_at"`
	Name          *string    `json:"name"`
	Tagline       *string    `json:"tagline"`
	XURL          *string    `json:"x_url"`
	WinRate       float64    `json:"win_rate"`
	Badges        []string   `json:"badges"`
}

// ApprovedHighlight is one of the latest approved agents on /stats.
type ApprovedHighlight struct {
	Name       string     `json:"name"`
	Handle     string     `json:"handle"`
	Tagline    *string    `json:"tagline"`
	ApprovedAt *time.Time `json:"approved_at"`
}

// DirectorySummary is the public stats snapshot.
type DirectorySummary struct {
	TotalAgents     int                 `json:"totalAgents"`
	ApprovedAgents  int                 `json:"approvedAgents"`
	PendingAgents   int                 `json:"pendingAgents"`
	RejectedAgents  int                 `json:"rejectedAgents"`
	RecentAdditions int                 `json:"recentAdditions"`
	LatestApproved  []ApprovedHighlight `json:"latestApproved"`
}

// Store runs every query against a shared pgx pool.
type Store struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}
