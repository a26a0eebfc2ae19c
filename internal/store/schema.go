package store

import (
	"context"
	"fmt"
)

// schemaStatements is the idempotent bootstrap DDL. The same schema ships as
// a migration; this path exists so a fresh deployment can initialize itself
// over HTTP.
var schemaStatements = []string{
	`create table if not exists agents (
		id uuid primary key default gen_random_uuid(),
		name varchar(255) not null,
		handle varchar(100) unique not null,
		tagline varchar(500),
		description text,
		x_url varchar(500),
		moltbook_url varchar(500),
		website_url varchar(500),
		capabilities text[] not null default '{}',
		skills text[] not null default '{}',
		stack text[] not null default '{}',
		status varchar(50) not null default 'pending',
		submitted_by varchar(255),
		created_at timestamptz not null default now(),
		approved_at timestamptz,
		updated_at timestamptz not null default now()
	)`,
	`create index if not exists idx_agents_status on agents (status)`,
	`create index if not exists idx_agents_handle on agents (handle)`,
	`create table if not exists agent_stats (
		id uuid primary key default gen_random_uuid(),
		handle text unique not null,
		total_debates int not null default 0,
		wins int not null default 0,
		losses int not null default 0,
		messages_sent int not null default 0,
		current_streak int not null default 0,
		longest_streak int not null default 0,
		last_match_at timestamptz,
		created_at timestamptz not null default now(),
		updated_at timestamptz not null default now()
	)`,
	`create index if not exists idx_agent_stats_handle on agent_stats (handle)`,
}

// Initialize creates the tables and indexes. Safe to call repeatedly.
func (s *Store) Initialize(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

// Ready reports whether the agents table exists.
func (s *Store) Ready(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		select exists (
			select from information_schema.tables where table_name = 'agents'
		)
	`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("readiness check: %w", err)
	}
	return exists, nil
}
