package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected int
	}{
		// Identical strings
		{"", "", 0},
		{"a", "a", 0},
		{"Account", "Account", 0},

		// Empty vs non-empty
		{"", "abc", 3},
		{"abc", "", 3},

		// Single character operations
		{"a", "b", 1},
		{"a", "ab", 1},
		{"ab", "a", 1},

		// Multiple operations
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},

		// Case-sensitive
		{"ABC", "abc", 3},

		// Runes, not bytes
		{"café", "cafe", 1},

		// Real-world API name examples
		{"contact", "contcat", 2},
		{"opportunity", "oportunity", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, result, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("account", "account"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.5, Similarity("ab", "ax"), 1e-9)
}

func TestAPINameSimilarity_IgnoresCaseAndSuffix(t *testing.T) {
	assert.InDelta(t, 1.0, APINameSimilarity("Widget__c", "widget"), 1e-9)
	assert.InDelta(t, 1.0, APINameSimilarity("Parent_Account__c", "ParentAccount__r"), 1e-9)
}
