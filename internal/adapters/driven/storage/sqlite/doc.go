// Package sqlite provides a SQLite-based implementation of the knowledge store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The schema has two tables: concepts (the discovered elements, with a
// case-insensitive unique label index) and combinations (the append-only
// pair-to-result map keyed by the canonical pair key).
//
// # Data Location
//
// By default, the database is stored at ~/.elemental/data/elements.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode; the atomic commit of a resolution relies on the
// combinations primary key, so concurrent writers across processes are safe too.
package sqlite
