package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quoted TO", `see TO "ideal" for details`, "see ideal for details"},
		{"quoted TT", `use TT "x = 2" here`, "use x = 2 here"},
		{"bare TO", "see TO Ring now", "see Ring now"},
		{"bare TT with dots", "call TT Ring.baseRing", "call Ring.baseRing"},
		{"at quoted", `the @TO "monomial ideal"@ page`, "the monomial ideal page"},
		{"at bare", "the @TO Ideal@ page", "the Ideal page"},
		{"para marker", "first PARA{}second", "firstsecond"},
		{"word containing TO", "TOTAL and INTO stay", "TOTAL and INTO stay"},
		{"no markup", "plain text", "plain text"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.in))
		})
	}
}

func TestStrip_Idempotent(t *testing.T) {
	inputs := []string{
		`TO "a" TT b @TO "c"@ PARA{}`,
		"TO TO x",
		"TT TO y",
		"TPARA{}O z",
		`@TO TO "w"@`,
		"{ TO foo }",
		"",
	}

	for _, in := range inputs {
		once := Strip(in)
		assert.Equal(t, once, Strip(once), "input %q", in)
	}
}

func TestStripAll(t *testing.T) {
	assert.Nil(t, StripAll(nil))
	assert.Equal(t, []string{"a", "b c"}, StripAll([]string{"TO a", `b TT "c"`}))
}

func TestCleanSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Ideal  ", "Ideal"},
		{`"hash tables"`, "hash tables"},
		{"{foo}", "foo"},
		{"(ideal, Ring)", "ideal, Ring"},
		{"'quoted'", "quoted"},
		{"TO Ring", "Ring"},
		{"  multi   word\n symbol ", "multi word symbol"},
		{`{ "a" }`, "a"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSymbol(tt.in))
		})
	}
}

func TestCleanSymbol_Idempotent(t *testing.T) {
	inputs := []string{
		`{ "a" } `,
		`("x" )`,
		"{\t'y'\t}",
		`"TO z"`,
		"  spaced   out  ",
		`"}"`,
		"(( ))",
	}

	for _, in := range inputs {
		once := CleanSymbol(in)
		assert.Equal(t, once, CleanSymbol(once), "input %q", in)
	}
}

func TestSplitSymbols(t *testing.T) {
	assert.Equal(t, []string{"foo", "bar", "baz"}, SplitSymbols("foo, bar\n\nbaz,"))
	assert.Equal(t, []string{"Ring"}, SplitSymbols("  TO Ring  "))
	assert.Empty(t, SplitSymbols(" , \n "))
	assert.NotNil(t, SplitSymbols(""))
}

func TestCleanSymbols(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanSymbols([]string{`"a"`, "  ", "(b)"}))
	assert.Empty(t, CleanSymbols(nil))
}
