// Package postgres provides a pgvector-backed implementation of the vector store port.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// schema creates the chunk table. The embedding column is unconstrained so
// any model dimension fits; search is exact.
const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS portfolio_chunks (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	text       TEXT NOT NULL,
	metadata   JSONB NOT NULL,
	embedding  vector NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_portfolio_chunks_category
	ON portfolio_chunks (collection, (metadata->>'category'));

CREATE INDEX IF NOT EXISTS idx_portfolio_chunks_file_path
	ON portfolio_chunks (collection, (metadata->>'file_path'));
`

// Store is a Postgres vector store using the pgvector extension.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to dsn and ensures the schema exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is empty", domain.ErrConfiguration)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func checkCollection(c domain.Collection) error {
	if !c.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
	}
	return nil
}

// Upsert stores chunks in one transaction, replacing existing IDs.
func (s *Store) Upsert(ctx context.Context, collection domain.Collection, chunks []domain.Chunk) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, ch := range chunks {
		if ch.ID == "" {
			return fmt.Errorf("%w: chunk without id", domain.ErrInvalidInput)
		}
		metaJSON, err := json.Marshal(ch.Metadata.Flatten())
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		batch.Queue(`
			INSERT INTO portfolio_chunks (collection, id, text, metadata, embedding, updated_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (collection, id) DO UPDATE SET
				text = EXCLUDED.text,
				metadata = EXCLUDED.metadata,
				embedding = EXCLUDED.embedding,
				updated_at = EXCLUDED.updated_at`,
			collection.String(), ch.ID, ch.Text, metaJSON, pgvector.NewVector(ch.Embedding))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// Query returns up to k chunks nearest to vector by cosine distance.
func (s *Store) Query(ctx context.Context, collection domain.Collection, vector []float32, k int, filter domain.MetadataFilter) ([]domain.SearchResult, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	where, args := filterClause(collection, filter, 2)
	args = append([]any{pgvector.NewVector(vector)}, args...)
	args = append(args, k)

	query := fmt.Sprintf(`
		SELECT id, text, metadata, embedding <=> $1 AS distance
		FROM portfolio_chunks
		WHERE %s
		ORDER BY distance, id
		LIMIT $%d`, where, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError(collection, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var (
			id, text string
			metaJSON []byte
			distance float64
		)
		if err := rows.Scan(&id, &text, &metaJSON, &distance); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		var fields map[string]string
		if err := json.Unmarshal(metaJSON, &fields); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata of %s: %w", id, err)
		}
		results = append(results, domain.NewSearchResult(id, text, domain.ParseChunkMetadata(fields), distance))
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(collection, err)
	}
	return results, nil
}

// Delete removes chunks matching filter.
func (s *Store) Delete(ctx context.Context, collection domain.Collection, filter domain.MetadataFilter) (int, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, fmt.Errorf("%w: delete requires a filter", domain.ErrInvalidInput)
	}

	where, args := filterClause(collection, filter, 1)
	tag, err := s.pool.Exec(ctx, "DELETE FROM portfolio_chunks WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", collection, err)
	}
	return int(tag.RowsAffected()), nil
}

// Count returns the number of chunks in a collection.
func (s *Store) Count(ctx context.Context, collection domain.Collection) (int, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	var n int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM portfolio_chunks WHERE collection = $1", collection.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	return n, nil
}

// Reset empties every collection.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "TRUNCATE portfolio_chunks"); err != nil {
		return fmt.Errorf("resetting chunks: %w", err)
	}
	return nil
}

// filterClause builds a WHERE clause whose placeholders start at $first.
func filterClause(collection domain.Collection, filter domain.MetadataFilter, first int) (string, []any) {
	clauses := []string{fmt.Sprintf("collection = $%d", first)}
	args := []any{collection.String()}
	for _, key := range filter.Keys() {
		n := first + len(args)
		clauses = append(clauses, fmt.Sprintf("metadata->>$%d = $%d", n, n+1))
		args = append(args, key, filter[key])
	}
	return strings.Join(clauses, " AND "), args
}

// queryError maps pgvector's dimension mismatch onto ErrInvalidInput.
func queryError(collection domain.Collection, err error) error {
	if strings.Contains(err.Error(), "different vector dimensions") {
		return fmt.Errorf("query %s: %w: %v", collection, domain.ErrInvalidInput, err)
	}
	return fmt.Errorf("querying %s: %w", collection, err)
}
