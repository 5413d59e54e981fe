// Package app wires the planning pipeline: it opens the schema catalog,
// loads and normalizes declarations, expands them, plans the load order,
// synthesizes the mapping artifact and writes it out. Diagnostics are logged
// through the run's slog logger; configuration and cycle errors abort the
// run before anything is written.
package app
