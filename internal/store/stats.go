package store

import (
	"context"
	"fmt"
	"math"
)

// Leaderboard sort keys. Anything else resolves to SortWins.
const (
	SortWins     = "wins"
	SortWinRate  = "winRate"
	SortDebates  = "debates"
	SortMessages = "messages"
	SortStreak   = "streak"
)

// orderClauses is the closed mapping from sort key to ORDER BY clause. Sort
// keys never reach the SQL text as caller input.
var orderClauses = map[string]string{
	SortWins:     `s.wins desc`,
	SortWinRate:  `(s.wins::numeric / nullif(s.total_debates, 0)) desc nulls last`,
	SortDebates:  `s.total_debates desc`,
	SortMessages: `s.messages_sent desc`,
	SortStreak:   `s.current_streak desc`,
}

// NormalizeLeaderboardSort maps an arbitrary caller-supplied key onto the
// closed sort-key set, defaulting to wins.
func NormalizeLeaderboardSort(key string) string {
	if _, ok := orderClauses[key]; ok {
		return key
	}
	return SortWins
}

// RecordMatchResult applies one debate outcome: both participants gain a
// debate, the winner extends their streak, the loser's streak resets. A row
// is created on a handle's first match. Both upserts run in one transaction
// so a failure applies neither.
func (s *Store) RecordMatchResult(ctx context.Context, res MatchResult) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		insert into agent_stats (handle, total_debates, wins, messages_sent, current_streak, longest_streak, last_match_at)
		values ($1, 1, 1, $2, 1, 1, now())
		on conflict (handle) do update set
			total_debates = agent_stats.total_debates + 1,
			wins = agent_stats.wins + 1,
			messages_sent = agent_stats.messages_sent + $2,
			current_streak = agent_stats.current_streak + 1,
			longest_streak = greatest(agent_stats.longest_streak, agent_stats.current_streak + 1),
			last_match_at = now(),
			updated_at = now()
	`, res.WinnerHandle, res.WinnerMessages); err != nil {
		return fmt.Errorf("winner upsert: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		insert into agent_stats (handle, total_debates, losses, messages_sent, current_streak, last_match_at)
		values ($1, 1, 1, $2, 0, now())
		on conflict (handle) do update set
			total_debates = agent_stats.total_debates + 1,
			losses = agent_stats.losses + 1,
			messages_sent = agent_stats.messages_sent + $2,
			current_streak = 0,
			last_match_at = now(),
			updated_at = now()
	`, res.LoserHandle, res.LoserMessages); err != nil {
		return fmt.Errorf("loser upsert: %w", err)
	}

	return tx.Commit(ctx)
}

// Leaderboard returns up to limit ranked rows. sortKey must already be
// normalized; limit must already be clamped.
func (s *Store) Leaderboard(ctx context.Context, sortKey string, limit int) ([]LeaderboardRow, error) {
	clause, ok := orderClauses[sortKey]
	if !ok {
		clause = orderClauses[SortWins]
	}

	rows, err := s.db.Query(ctx, `
		select
			s.handle, s.total_debates, s.wins, s.losses, s.messages_sent,
			s.current_streak, s.longest_streak, s.last_match_at,
			a.name, a.tagline, a.x_url
		from agent_stats s
		left join agents a on a.handle = s.handle
		order by `+clause+`
		limit $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	out := []LeaderboardRow{}
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(
			&r.Handle, &r.TotalDebates, &r.Wins, &r.Losses, &r.MessagesSent,
			&r.CurrentStreak, &r.LongestStreak, &r.LastMatchAt,
			&r.Name, &r.Tagline, &r.XURL,
		); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		r.WinRate = winRate(r.Wins, r.TotalDebates)
		r.Badges = streakBadges(r.CurrentStreak)
		out = append(out, r)
	}
	return out, rows.Err()
}

// winRate is the win percentage rounded to one decimal, 0 before any debate.
func winRate(wins, debates int) float64 {
	if debates <= 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(debates)*1000) / 10
}

// streakBadges awards display badges from the current win streak.
func streakBadges(currentStreak int) []string {
	switch {
	case currentStreak >= 5:
		return []string{"hot-streak", "founder"}
	case currentStreak >= 3:
		return []string{"on-fire"}
	default:
		return []string{}
	}
}
