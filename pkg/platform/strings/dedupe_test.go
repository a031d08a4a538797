package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		expect []string
	}{
		{name: "nil input", input: nil, expect: nil},
		{name: "trims and drops blanks", input: []string{" Kings ", "", "  "}, expect: []string{"Kings"}},
		{name: "keeps first occurrence order", input: []string{"Monterey", "Alameda", "Monterey "}, expect: []string{"Monterey", "Alameda"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, DedupeAndTrim(tt.input))
		})
	}
}

func TestContainsFold(t *testing.T) {
	values := []string{"Monterey", "San Benito"}
	assert.True(t, ContainsFold(values, "monterey"))
	assert.True(t, ContainsFold(values, " San Benito "))
	assert.False(t, ContainsFold(values, "Kern"))
	assert.False(t, ContainsFold(nil, "Kern"))
}
