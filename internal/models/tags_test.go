package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain list", "a,b,c", []string{"a", "b", "c"}},
		{"whitespace trimmed", " a , b ,c ", []string{"a", "b", "c"}},
		{"consecutive commas dropped", "a,,b", []string{"a", "b"}},
		{"trailing comma dropped", "a,b,", []string{"a", "b"}},
		{"leading comma dropped", ",a", []string{"a"}},
		{"empty string", "", []string{}},
		{"only separators", ", ,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.raw))
		})
	}
}

func TestSanitizeTags(t *testing.T) {
	assert.Equal(t, "a, b, c", SanitizeTags("a,b ,  c"))
	assert.Equal(t, "", SanitizeTags(",, ,"))
}

func TestSanitizeTags_Idempotent(t *testing.T) {
	for _, raw := range []string{"a,b,c", " a ,, b,", "", "one", "x, y, z"} {
		once := SanitizeTags(raw)
		assert.Equal(t, once, SanitizeTags(once), "raw=%q", raw)
	}
}
