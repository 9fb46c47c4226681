package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"noise", "nose", 1},
		{"warp", "wrap", 2},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			assert.Equal(t, tt.expected, LevenshteinDistance(tt.s1, tt.s2))
		})
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"dropletNoise", "main", "warp", "fbm", "dropletMask"}

	tests := []struct {
		name     string
		target   string
		opts     *FuzzyMatchOptions
		expected []string
	}{
		{"exact", "warp", &FuzzyMatchOptions{MaxDistance: 1}, []string{"warp"}},
		{"typo", "dropletNose", nil, []string{"dropletNoise", "dropletMask"}},
		{"case insensitive", "MAIN", &FuzzyMatchOptions{MaxDistance: 1}, []string{"main"}},
		{"case sensitive", "MAIN", &FuzzyMatchOptions{CaseSensitive: true}, []string{}},
		{"closest first", "fbn", &FuzzyMatchOptions{MaxDistance: 4}, []string{"fbm", "main", "warp"}},
		{"max suggestions", "fbn", &FuzzyMatchOptions{MaxDistance: 4, MaxSuggestions: 1}, []string{"fbm"}},
		{"nothing close", "tonemapACES", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindSimilar(tt.target, candidates, tt.opts))
		})
	}
}

func TestFindSimilarEmptyCandidates(t *testing.T) {
	assert.Empty(t, FindSimilar("main", nil, nil))
}

func TestFindBestMatch(t *testing.T) {
	candidates := []string{"dropletNoise", "main"}

	assert.Equal(t, "dropletNoise", FindBestMatch("dropletnoize", candidates, nil))
	assert.Equal(t, "", FindBestMatch("bloom", candidates, nil))
}
