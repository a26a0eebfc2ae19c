package httpapi

import "github.com/jackc/pgx/v5/pgxpool"

type Deps struct {
	DB *pgxpool.Pool

	// AdminToken guards moderation endpoints; empty means moderation is
	// unavailable (503), never open.
	AdminToken string

	// ResultsSecret authorizes the match-result webhook via a body field.
	ResultsSecret string

	RateLimitPerMinute int
}
