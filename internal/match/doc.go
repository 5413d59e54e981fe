// Package match provides API-name normalization, Levenshtein distance and
// nearest-name suggestions for object and field names that do not exist in
// the schema.
//
// Key functions:
//   - NormalizeAPIName: folds an sObject or field API name for fuzzy matching
//   - Levenshtein: computes edit distance between strings
//   - Suggest: picks the closest known name for a miss
package match
