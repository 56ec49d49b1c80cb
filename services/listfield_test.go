package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"['a', 'b']", []string{"a", "b"}},
		{"['arrendo']", []string{"arrendo"}},
		{`["x" , "y"]`, []string{"x", "y"}},
		{"[]", []string{}},
		{"['']", []string{}},
		{"['a', '', 'b']", []string{"a", "b"}},
		{"", []string{}},
		{"   ", []string{}},
		{"arrendo", []string{"arrendo"}},
		{"  plain text  ", []string{"plain text"}},
		{"[unterminated", []string{"[unterminated"}},
		{"[", []string{"["}},
		{"['plain, text', 'b']", []string{"plain, text", "b"}},
		{`["it's", 'b']`, []string{"it's", "b"}},
		{`['it\'s']`, []string{"it's"}},
		{"[a, b]", []string{"a", "b"}},
		{"['a, b]", []string{"a, b"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseList(tt.raw), "ParseList(%q)", tt.raw)
	}
}

func TestParseListIdempotent(t *testing.T) {
	inputs := [][]string{
		{},
		{"a"},
		{"pago-demasiado", "falta-espaco"},
		{"T4+", "T1"},
		{"plain, text"},
		{"it's", "b"},
		{"a', 'b"},
		{`back\slash`, `trailing\`},
	}
	for _, xs := range inputs {
		assert.Equal(t, xs, ParseList(FormatList(xs)), "FormatList(%q)", xs)
	}
}

func TestParseListIdempotentOnOwnOutput(t *testing.T) {
	for _, raw := range []string{
		"plain, text",
		"['a', 'b']",
		"[unterminated",
		"['a, b]",
		"it's",
		`["x" , "y"]`,
		"[a, 'b, c']",
	} {
		first := ParseList(raw)
		assert.Equal(t, first, ParseList(FormatList(first)), "raw %q", raw)
	}
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, "[]", FormatList(nil))
	assert.Equal(t, "['a', 'b']", FormatList([]string{"a", "b"}))
	assert.Equal(t, `['it\'s', 'a\\b']`, FormatList([]string{"it's", `a\b`}))
}

func TestPrimary(t *testing.T) {
	assert.Equal(t, "", Primary(nil))
	assert.Equal(t, "", Primary([]string{}))
	assert.Equal(t, "arrendo", Primary([]string{"arrendo", "comprei"}))
}
