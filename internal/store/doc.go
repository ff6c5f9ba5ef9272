// Package store provides SQLite-backed storage for constraint definitions.
//
// The engine itself owns no persistent state; this store backs the
// constraint CRUD surface so constraint definitions survive across sessions.
// Each row carries the immutable dialect tag set at creation time; updates
// never touch it.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
