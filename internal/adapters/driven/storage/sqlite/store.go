package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/rishinpoolat/portfolio/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/rishinpoolat/portfolio/internal/core/domain"
	"github.com/rishinpoolat/portfolio/internal/core/ports/driven"
	"github.com/rishinpoolat/portfolio/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DatabaseFile is the file name of the vector database inside its directory.
const DatabaseFile = "vectors.db"

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the vector database in dataDir, creating the directory
// and applying pending migrations as needed.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: vector store path is empty", domain.ErrConfiguration)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migration is one numbered "<version>_<name>.up.sql" script.
type migration struct {
	version int
	file    string
}

// migrate applies every up script newer than the recorded schema version.
// Each script runs in its own transaction together with its version row.
func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&applied); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	pending, err := pendingMigrations(fsys, applied)
	if err != nil {
		return err
	}
	for _, m := range pending {
		script, err := fs.ReadFile(fsys, m.file)
		if err != nil {
			return fmt.Errorf("read %s: %w", m.file, err)
		}
		if err := s.apply(m, string(script)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) apply(m migration, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("apply %s: %w", m.file, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(script); err != nil {
		return fmt.Errorf("apply %s: %w", m.file, err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
		return fmt.Errorf("record %s: %w", m.file, err)
	}
	return tx.Commit()
}

// pendingMigrations lists up scripts with a version above applied, oldest
// first. Files without a numeric prefix are ignored.
func pendingMigrations(fsys fs.FS, applied int) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	var out []migration
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		var v int
		if _, err := fmt.Sscanf(e.Name(), "%d_", &v); err != nil || v <= applied {
			continue
		}
		out = append(out, migration{version: v, file: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// ==================== Vector Store ====================

func checkCollection(c domain.Collection) error {
	if !c.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCollection, c)
	}
	return nil
}

// Upsert stores chunks in a single transaction, replacing existing IDs.
func (s *Store) Upsert(ctx context.Context, collection domain.Collection, chunks []domain.Chunk) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (collection, id, text, metadata, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, id) DO UPDATE SET
			text = excluded.text,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, ch := range chunks {
		if ch.ID == "" {
			return fmt.Errorf("%w: chunk without id", domain.ErrInvalidInput)
		}
		metaJSON, err := json.Marshal(ch.Metadata.Flatten())
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, collection.String(), ch.ID, ch.Text,
			string(metaJSON), float32SliceToBytes(ch.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", ch.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}
	return nil
}

// Query returns up to k chunks nearest to vector among those matching filter.
// Chunks embedded with a different dimension are skipped.
func (s *Store) Query(ctx context.Context, collection domain.Collection, vector []float32, k int, filter domain.MetadataFilter) ([]domain.SearchResult, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	where, args, err := filterClause(collection, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, text, metadata, embedding FROM chunks WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	skipped := 0
	for rows.Next() {
		var id, text, metaJSON string
		var blob []byte
		if err := rows.Scan(&id, &text, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		var fields map[string]string
		if err := json.Unmarshal([]byte(metaJSON), &fields); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata of %s: %w", id, err)
		}

		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(vector) {
			skipped++
			continue
		}
		dist, err := domain.CosineDistance(vector, embedding)
		if err != nil {
			return nil, fmt.Errorf("query %s: chunk %s: %w", collection, id, err)
		}
		results = append(results, domain.NewSearchResult(id, text, domain.ParseChunkMetadata(fields), dist))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	if skipped > 0 {
		logger.Warn(domain.DimensionMismatchWarning, skipped, collection, len(vector))
	}

	return domain.SortByDistance(results, k), nil
}

// Delete removes chunks matching filter.
func (s *Store) Delete(ctx context.Context, collection domain.Collection, filter domain.MetadataFilter) (int, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return 0, fmt.Errorf("%w: delete requires a filter", domain.ErrInvalidInput)
	}

	where, args, err := filterClause(collection, filter)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted rows: %w", err)
	}
	return int(n), nil
}

// Count returns the number of chunks in a collection.
func (s *Store) Count(ctx context.Context, collection domain.Collection) (int, error) {
	if err := checkCollection(collection); err != nil {
		return 0, err
	}
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks WHERE collection = ?", collection.String())
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", collection, err)
	}
	return n, nil
}

// Reset empties every collection.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("resetting chunks: %w", err)
	}
	return nil
}

// filterClause builds the WHERE clause for a collection and metadata filter.
func filterClause(collection domain.Collection, filter domain.MetadataFilter) (string, []any, error) {
	clauses := []string{"collection = ?"}
	args := []any{collection.String()}
	for _, key := range filter.Keys() {
		if strings.ContainsAny(key, `"\`) {
			return "", nil, fmt.Errorf("%w: metadata key %q", domain.ErrInvalidInput, key)
		}
		clauses = append(clauses, "json_extract(metadata, ?) = ?")
		args = append(args, `$."`+key+`"`, filter[key])
	}
	return strings.Join(clauses, " AND "), args, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
