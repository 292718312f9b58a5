package workflow

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/robosmart/flowrec/internal/domain"
	domsearch "github.com/robosmart/flowrec/internal/domain/search"
	domwf "github.com/robosmart/flowrec/internal/domain/workflow"
)

// Repo reads and updates workflow chunk rows in Postgres. A workflow is
// stored as one or more chunk rows sharing a workflow_id; the embedding
// belongs to the chunk row.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a workflow repository over an existing connection pool.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const candidateColumns = `workflow_id, title, short_description, full_description,
	category, subcategory, tools, complexity, embedding, source_url`

// FetchCandidates returns all embedded chunk rows matching the filters,
// hydrated with the workflow ID so downstream grouping works per workflow.
func (r *Repo) FetchCandidates(ctx context.Context, filters domsearch.Filters) ([]domwf.Workflow, error) {
	query := `SELECT ` + candidateColumns + `
		FROM workflow_chunks
		WHERE embedding IS NOT NULL`

	var args []any
	if filters.Category != "" {
		args = append(args, filters.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filters.Complexity != "" {
		args = append(args, string(filters.Complexity))
		query += fmt.Sprintf(" AND complexity = $%d", len(args))
	}
	if filters.Tool != "" {
		args = append(args, filters.Tool)
		query += fmt.Sprintf(" AND $%d = ANY(tools)", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w: %w", domain.ErrStoreAccess, err)
	}
	defer rows.Close()

	var out []domwf.Workflow
	for rows.Next() {
		var row chunkRow
		if err := rows.Scan(
			&row.ID, &row.Title, &row.ShortDescription, &row.FullDescription,
			&row.Category, &row.Subcategory, &row.Tools, &row.Complexity,
			&row.Embedding, &row.SourceURL,
		); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w: %w", domain.ErrStoreAccess, err)
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w: %w", domain.ErrStoreAccess, err)
	}

	return out, nil
}

// ListMissingEmbeddings pages through chunk rows without an embedding.
// Hydrated rows carry the chunk row id, not the workflow id, so that
// UpdateEmbedding targets the exact row.
func (r *Repo) ListMissingEmbeddings(ctx context.Context, offset, limit int) ([]domwf.Workflow, error) {
	query := `SELECT id, title, short_description, full_description,
			category, subcategory, tools, complexity, source_url
		FROM workflow_chunks
		WHERE embedding IS NULL
		  AND (full_description <> '' OR short_description <> '')
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list missing embeddings: %w: %w", domain.ErrStoreAccess, err)
	}
	defer rows.Close()

	var out []domwf.Workflow
	for rows.Next() {
		var row chunkRow
		if err := rows.Scan(
			&row.ID, &row.Title, &row.ShortDescription, &row.FullDescription,
			&row.Category, &row.Subcategory, &row.Tools, &row.Complexity,
			&row.SourceURL,
		); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w: %w", domain.ErrStoreAccess, err)
		}
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk rows: %w: %w", domain.ErrStoreAccess, err)
	}

	return out, nil
}

// UpdateEmbedding stores the generated vector on a chunk row.
func (r *Repo) UpdateEmbedding(ctx context.Context, id string, vector []float32) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE workflow_chunks SET embedding = $2 WHERE id = $1`,
		id, pgvector.NewVector(vector),
	)
	if err != nil {
		return fmt.Errorf("update embedding %s: %w: %w", id, domain.ErrStoreAccess, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update embedding %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Categories returns the distinct category labels present in the store.
func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT category FROM workflow_chunks WHERE category <> '' ORDER BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w: %w", domain.ErrStoreAccess, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w: %w", domain.ErrStoreAccess, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w: %w", domain.ErrStoreAccess, err)
	}

	return out, nil
}
