// Package schema models the org schema snapshot the planner reasons over:
// objects, their fields, and the lookup relationships between them.
//
// The snapshot is read-only and must be complete before planning starts.
// It can be built in memory, read from a YAML/JSON snapshot file, or read
// from a SQL schema cache populated by the describe machinery.
package schema
