package ident

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "_"},
		{name: "already valid", input: "math", want: "math"},
		{name: "leading digit is kept after underscore", input: "1abc", want: "_1abc"},
		{name: "spaces", input: "nested context with additional details", want: "nested_context_with_additional_details"},
		{name: "consecutive illegal characters collapse", input: "a  b", want: "a_b"},
		{name: "mixed illegal run", input: "a -> b", want: "a_b"},
		{name: "trailing illegal character is dropped", input: "foo!", want: "foo"},
		{name: "trailing illegal run is dropped", input: "foo?!", want: "foo"},
		{name: "leading illegal character", input: "#tag", want: "_tag"},
		{name: "only illegal characters", input: "!?-", want: "_"},
		{name: "single illegal character", input: " ", want: "_"},
		{name: "unicode letters", input: "größe prüfen", want: "größe_prüfen"},
		{name: "unicode digit start", input: "٣ items", want: "_٣_items"},
		{name: "trailing underscore written by the user", input: "foo_", want: "foo_"},
		{name: "lone underscore", input: "_", want: "_"},
		{name: "emoji", input: "works 🎉 fine", want: "works_fine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValid(got), "%q is not a valid identifier", got)
		})
	}
}

func TestSanitize_NeverTwoInsertedUnderscores(t *testing.T) {
	for _, input := range []string{"a  b", "a\t\n b", "a!@#$%b", "  x  "} {
		assert.NotContains(t, Sanitize(input), "__", input)
	}
}

func TestSanitize_IdempotentOnIdentifiers(t *testing.T) {
	for _, input := range []string{"x", "_", "__", "foo_bar", "foo_", "_1", "Größe", "a1b2", "describe"} {
		assert.True(t, IsValid(input), input)
		assert.Equal(t, input, Sanitize(input))
	}
}

func TestSanitize_OutputIsGoIdentifier(t *testing.T) {
	inputs := []string{"", "1", "a b", "hello, world!", "x.y.z", "😀", "tab\there", "9 lives"}
	for _, input := range inputs {
		got := Sanitize(input)
		assert.NotEmpty(t, got)
		// go/token also rejects keywords, which are fine as names here.
		assert.True(t, token.IsIdentifier(got) || token.IsKeyword(got), "%q -> %q", input, got)
		assert.Equal(t, got, Sanitize(got), "not stable for %q", input)
	}
}

func TestSanitize_MayCollide(t *testing.T) {
	assert.Equal(t, Sanitize("a b"), Sanitize("a-b"))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("abc"))
	assert.True(t, IsValid("_"))
	assert.True(t, IsValid("é1"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("1a"))
	assert.False(t, IsValid("a b"))
	assert.False(t, IsValid("a-b"))
	assert.False(t, IsValid(string([]byte{0xff})))
}
