package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty stays empty", input: "", expect: ""},
		{name: "plain text untouched", input: "Ada", expect: "Ada"},
		{name: "apostrophe survives", input: "O'Brien", expect: "O'Brien"},
		{name: "ampersand survives", input: "Smith & Sons", expect: "Smith & Sons"},
		{name: "tags are stripped", input: "<b>Grace</b>", expect: "Grace"},
		{name: "script content removed", input: "Bob<script>alert(1)</script>", expect: "Bob"},
		{name: "surrounding whitespace trimmed", input: "  Linus  ", expect: "Linus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Text(tt.input))
		})
	}
}
