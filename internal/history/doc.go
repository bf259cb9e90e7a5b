// Package history persists a record of each compression run in SQLite.
//
// The store is opt-in ([history] enabled = true) and lives at
// paths.history_path. It is write-once per run: the CLI records the outcome
// after the encoder returns and `vidfit history` lists recent rows. A schema
// version row guards against opening a database written by an incompatible
// build.
package history
