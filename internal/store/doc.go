// Package store provides SQLite-backed history of consistency checks.
//
// Every recorded check becomes one row in runs and one row per trace step
// in run_steps. Runs are append-only.
//
// Ordering uses the logical seq column, never wall-clock time: runs are
// listed ORDER BY seq ASC and steps ORDER BY seq ASC within a run, so two
// reads of the same database always agree.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON: steps cannot outlive their run
package store
