// Package diagnostic provides structured errors, warnings and infos collected
// while planning a mapping.
//
// Key capabilities:
//   - Configuration errors that abort planning (malformed selectors, unknown fields)
//   - Referential-gap warnings (missing or excluded objects and fields)
//   - Nearest-name suggestions attached to misses
//   - Flushing everything to a slog.Logger so no warning is swallowed
package diagnostic
