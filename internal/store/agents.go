package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const agentColumns = `
	id, name, handle, tagline, description,
	x_url, moltbook_url, website_url,
	capabilities, skills, stack,
	status, submitted_by, created_at, approved_at, updated_at`

const agentSummaryColumns = `
	id, name, handle, tagline, description,
	x_url, moltbook_url, website_url,
	capabilities, skills, stack,
	created_at, approved_at`

const agentCardColumns = `id, name, handle, tagline, description, x_url, capabilities`

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// nullable maps "" to SQL NULL so optional submission fields stay null
// instead of empty strings.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// CreateAgent inserts a submission with status pending. The unique index on
// handle is the conflict authority; there is no read-then-insert race.
func (s *Store) CreateAgent(ctx context.Context, in NewAgent) (CreatedAgent, error) {
	var out CreatedAgent
	err := s.db.QueryRow(ctx, `
		insert into agents (
			name, handle, tagline, description,
			x_url, moltbook_url, website_url,
			capabilities, skills, stack, submitted_by, status
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending')
		returning id, name, handle, status, created_at
	`,
		in.Name, in.Handle, nullable(in.Tagline), nullable(in.Description),
		nullable(in.XURL), nullable(in.MoltbookURL), nullable(in.WebsiteURL),
		orEmpty(in.Capabilities), orEmpty(in.Skills), orEmpty(in.Stack),
		nullable(in.SubmittedBy),
	).Scan(&out.ID, &out.Name, &out.Handle, &out.Status, &out.CreatedAt)
	if isUniqueViolation(err) {
		return CreatedAgent{}, ErrHandleTaken
	}
	if err != nil {
		return CreatedAgent{}, fmt.Errorf("insert agent: %w", err)
	}
	return out, nil
}

func (s *Store) AgentByID(ctx context.Context, id uuid.UUID) (Agent, error) {
	row := s.db.QueryRow(ctx, `select`+agentColumns+` from agents where id = $1`, id)
	a, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Agent{}, ErrNotFound
	}
	if err != nil {
		return Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

// ListAgents returns the public field subset for one status, most recently
// approved first (rows never approved sort last, newest submission first).
func (s *Store) ListAgents(ctx context.Context, status string) ([]AgentSummary, error) {
	rows, err := s.db.Query(ctx, `
		select`+agentSummaryColumns+`
		from agents
		where status = $1
		order by approved_at desc nulls last, created_at desc
	`, status)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	out := []AgentSummary{}
	for rows.Next() {
		var a AgentSummary
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Handle, &a.Tagline, &a.Description,
			&a.XURL, &a.MoltbookURL, &a.WebsiteURL,
			&a.Capabilities, &a.Skills, &a.Stack,
			&a.CreatedAt, &a.ApprovedAt,
		); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAllAgents returns every row with every field, newest first. Admin use.
func (s *Store) ListAllAgents(ctx context.Context) ([]Agent, error) {
	return s.listFull(ctx, `select`+agentColumns+` from agents order by created_at desc`)
}

// ListPendingAgents is the moderation queue: oldest submission first.
func (s *Store) ListPendingAgents(ctx context.Context) ([]Agent, error) {
	return s.listFull(ctx, `select`+agentColumns+` from agents where status = 'pending' order by created_at asc`)
}

func (s *Store) listFull(ctx context.Context, query string) ([]Agent, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	out := []Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetAgentStatus moves an agent to approved or rejected. Approval stamps
// approved_at; rejection leaves any earlier approval timestamp in place.
func (s *Store) SetAgentStatus(ctx context.Context, id uuid.UUID, status string) (Agent, error) {
	var query string
	switch status {
	case StatusApproved:
		query = `
			update agents
			set status = 'approved', approved_at = now(), updated_at = now()
			where id = $1
			returning` + agentColumns
	case StatusRejected:
		query = `
			update agents
			set status = 'rejected', updated_at = now()
			where id = $1
			returning` + agentColumns
	default:
		return Agent{}, ErrInvalidStatus
	}

	a, err := scanAgent(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Agent{}, ErrNotFound
	}
	if err != nil {
		return Agent{}, fmt.Errorf("update agent status: %w", err)
	}
	return a, nil
}

func (s *Store) DeleteAgent(ctx context.Context, id uuid.UUID) (DeletedAgent, error) {
	var d DeletedAgent
	err := s.db.QueryRow(ctx, `
		delete from agents where id = $1
		returning id, name, handle
	`, id).Scan(&d.ID, &d.Name, &d.Handle)
	if errors.Is(err, pgx.ErrNoRows) {
		return DeletedAgent{}, ErrNotFound
	}
	if err != nil {
		return DeletedAgent{}, fmt.Errorf("delete agent: %w", err)
	}
	return d, nil
}

// RandomApprovedPair picks two distinct approved agents uniformly at
// random. Below two approved agents it fails with NotEnoughAgentsError
// carrying the true count.
func (s *Store) RandomApprovedPair(ctx context.Context) (AgentCard, AgentCard, error) {
	rows, err := s.db.Query(ctx, `
		select `+agentCardColumns+`
		from agents
		where status = 'approved'
		order by random()
		limit 2
	`)
	if err != nil {
		return AgentCard{}, AgentCard{}, fmt.Errorf("random pair: %w", err)
	}
	defer rows.Close()

	cards := make([]AgentCard, 0, 2)
	for rows.Next() {
		c, err := scanAgentCard(rows)
		if err != nil {
			return AgentCard{}, AgentCard{}, fmt.Errorf("scan agent card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return AgentCard{}, AgentCard{}, err
	}
	if len(cards) < 2 {
		return AgentCard{}, AgentCard{}, NotEnoughAgentsError{Available: len(cards)}
	}
	return cards[0], cards[1], nil
}

// ApprovedPair fetches two specific agents, both of which must exist and be
// approved.
func (s *Store) ApprovedPair(ctx context.Context, id1, id2 uuid.UUID) (AgentCard, AgentCard, error) {
	rows, err := s.db.Query(ctx, `
		select `+agentCardColumns+`
		from agents
		where id in ($1, $2) and status = 'approved'
	`, id1, id2)
	if err != nil {
		return AgentCard{}, AgentCard{}, fmt.Errorf("approved pair: %w", err)
	}
	defer rows.Close()

	byID := map[uuid.UUID]AgentCard{}
	for rows.Next() {
		c, err := scanAgentCard(rows)
		if err != nil {
			return AgentCard{}, AgentCard{}, fmt.Errorf("scan agent card: %w", err)
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return AgentCard{}, AgentCard{}, err
	}

	a1, ok1 := byID[id1]
	a2, ok2 := byID[id2]
	if !ok1 || !ok2 || id1 == id2 {
		return AgentCard{}, AgentCard{}, ErrAgentsUnavailable
	}
	return a1, a2, nil
}

// DirectorySummary aggregates the public stats snapshot: totals by status,
// submissions in the last 7 days and the five most recently approved agents.
func (s *Store) DirectorySummary(ctx context.Context) (DirectorySummary, error) {
	sum := DirectorySummary{LatestApproved: []ApprovedHighlight{}}

	rows, err := s.db.Query(ctx, `select status, count(*)::int from agents group by status`)
	if err != nil {
		return DirectorySummary{}, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return DirectorySummary{}, fmt.Errorf("scan status count: %w", err)
		}
		sum.TotalAgents += count
		switch status {
		case StatusApproved:
			sum.ApprovedAgents = count
		case StatusPending:
			sum.PendingAgents = count
		case StatusRejected:
			sum.RejectedAgents = count
		}
	}
	if err := rows.Err(); err != nil {
		return DirectorySummary{}, err
	}

	if err := s.db.QueryRow(ctx, `
		select count(*)::int from agents where created_at > now() - interval '7 days'
	`).Scan(&sum.RecentAdditions); err != nil {
		return DirectorySummary{}, fmt.Errorf("recent count: %w", err)
	}

	latest, err := s.db.Query(ctx, `
		select name, handle, tagline, approved_at
		from agents
		where status = 'approved'
		order by approved_at desc nulls last
		limit 5
	`)
	if err != nil {
		return DirectorySummary{}, fmt.Errorf("latest approved: %w", err)
	}
	defer latest.Close()
	for latest.Next() {
		var h ApprovedHighlight
		if err := latest.Scan(&h.Name, &h.Handle, &h.Tagline, &h.ApprovedAt); err != nil {
			return DirectorySummary{}, fmt.Errorf("scan highlight: %w", err)
		}
		sum.LatestApproved = append(sum.LatestApproved, h)
	}
	return sum, latest.Err()
}

func scanAgent(row pgx.Row) (Agent, error) {
	var a Agent
	err := row.Scan(
		&a.ID, &a.Name, &a.Handle, &a.Tagline, &a.Description,
		&a.XURL, &a.MoltbookURL, &a.WebsiteURL,
		&a.Capabilities, &a.Skills, &a.Stack,
		&a.Status, &a.SubmittedBy, &a.CreatedAt, &a.ApprovedAt, &a.UpdatedAt,
	)
	return a, err
}

func scanAgentCard(row pgx.Row) (AgentCard, error) {
	var c AgentCard
	err := row.Scan(&c.ID, &c.Name, &c.Handle, &c.Tagline, &c.Description, &c.XURL, &c.Capabilities)
	return c, err
}
