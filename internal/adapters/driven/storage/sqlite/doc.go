// Package sqlite provides a persistent vector store on SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Every collection lives in a single
// chunks table keyed by (collection, id).
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Search
//
// Embeddings are stored as little-endian float32 blobs. Metadata filters are
// evaluated in SQL with json_extract; cosine distance is computed in Go over the
// filtered rows, which is exact and fast enough for a portfolio-sized corpus.
//
// # Data Location
//
// The database is stored at <vector_db_path>/vectors.db.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
