package workflow

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"

	domwf "github.com/robosmart/flowrec/internal/domain/workflow"
)

// chunkRow mirrors one workflow_chunks row. Embedding stays zero-valued for
// queries that do not select it; subcategory and source_url are nullable in
// the schema, so they scan through pgtype.Text.
type chunkRow struct {
	ID               string
	Title            string
	ShortDescription string
	FullDescription  string
	Category         string
	Subcategory      pgtype.Text
	Tools            []string
	Complexity       string
	Embedding        pgvector.Vector
	SourceURL        pgtype.Text
}

func (r *chunkRow) toDomain() domwf.Workflow {
	return domwf.Reconstruct(
		r.ID,
		r.Title,
		r.ShortDescription,
		r.FullDescription,
		r.Category,
		r.Subcategory.String,
		r.Tools,
		domwf.ParseComplexity(r.Complexity),
		r.Embedding.Slice(),
		r.SourceURL.String,
	)
}
