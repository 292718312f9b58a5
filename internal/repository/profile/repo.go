package profile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robosmart/flowrec/internal/domain"
	dompref "github.com/robosmart/flowrec/internal/domain/preference"
	domwf "github.com/robosmart/flowrec/internal/domain/workflow"
)

// Interaction history older than this many rows does not shape preferences.
const interactionHistoryLimit = 100

// Repo reads user profiles and interaction history from Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a profile repository over an existing connection pool.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// UserExists reports whether a profile row exists for the user.
func (r *Repo) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_profiles WHERE user_id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user exists %d: %w: %w", userID, domain.ErrStoreAccess, err)
	}
	return exists, nil
}

// ListInteractions returns the user's most recent workflow interactions.
func (r *Repo) ListInteractions(ctx context.Context, userID int64) ([]dompref.Interaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, tools, complexity
		FROM workflow_interactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, interactionHistoryLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("list interactions %d: %w: %w", userID, domain.ErrStoreAccess, err)
	}
	defer rows.Close()

	var out []dompref.Interaction
	for rows.Next() {
		// category and complexity are nullable on interaction rows.
		var (
			category   pgtype.Text
			tools      []string
			complexity pgtype.Text
		)
		if err := rows.Scan(&category, &tools, &complexity); err != nil {
			return nil, fmt.Errorf("scan interaction: %w: %w", domain.ErrStoreAccess, err)
		}
		in := dompref.Interaction{Category: category.String, Tools: tools}
		if complexity.String != "" {
			in.Complexity = domwf.ParseComplexity(complexity.String)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w: %w", domain.ErrStoreAccess, err)
	}

	return out, nil
}
