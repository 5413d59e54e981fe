package match

import (
	"strings"
)

// customSuffixes are the API-name suffixes Salesforce appends to custom
// components. Longer suffixes come first so "__mdt" is not read as "__c".
var customSuffixes = []string{"__mdt", "__kav", "__c", "__r", "__e", "__b", "__x"}

// NormalizeAPIName normalizes an sObject or field API name for fuzzy matching.
// The normalization pipeline:
// 1. Case-fold to lower (API names are case-insensitive).
// 2. Strip one custom-component suffix (__c, __r, __mdt, ...).
// 3. Strip separators (_, -, spaces).
//
// A managed-package namespace prefix ("ns__Widget__c") is kept: two packages'
// Widget objects are different objects.
func NormalizeAPIName(s string) string {
	n := strings.ToLower(strings.TrimSpace(s))

	for _, suffix := range customSuffixes {
		if strings.HasSuffix(n, suffix) && len(n) > len(suffix) {
			n = strings.TrimSuffix(n, suffix)

			break
		}
	}

	return stripSeparators(n)
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// stripSeparators removes common separators from a string.
func stripSeparators(s string) string {
	var result strings.Builder

	result.Grow(len(s))

	for _, r := range s {
		if !isSeparator(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}
