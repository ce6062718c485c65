package ast_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/chazu/speculate/pkg/ast"
	"github.com/chazu/speculate/pkg/lexer"
	"github.com/chazu/speculate/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFile(t *testing.T, path string) *ast.Root {
	t.Helper()
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	root, err := parser.Parse(path, src)
	require.NoError(t, err)
	return root
}

func TestJSON_RoundTrip(t *testing.T) {
	for _, path := range []string{
		"../../testdata/example.spec",
		"../../testdata/hooks.spec",
		"../../testdata/attributes.spec",
	} {
		t.Run(path, func(t *testing.T) {
			root := parseFile(t, path)
			data, err := ast.Marshal(root)
			require.NoError(t, err)

			decoded, err := ast.ParseBytes(data)
			require.NoError(t, err)
			again, err := ast.Marshal(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(again))

			fromReader, err := ast.Parse(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, ast.Cases(decoded, ast.UnwindOrder), ast.Cases(fromReader, ast.UnwindOrder))
		})
	}
}

func TestJSON_BlockTypes(t *testing.T) {
	root := parseFile(t, "../../testdata/example.spec")
	data, err := ast.Marshal(root)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"type": "describe"`)
	assert.Contains(t, string(data), `"type": "it"`)
	assert.Contains(t, string(data), `"type": "item"`)
	assert.NotContains(t, string(data), `"tokens"`)
}

func TestJSON_RecoversTokens(t *testing.T) {
	root := parseFile(t, "../../testdata/attributes.spec")
	data, err := ast.Marshal(root)
	require.NoError(t, err)
	decoded, err := ast.ParseBytes(data)
	require.NoError(t, err)

	var items []*ast.Item
	var its []*ast.It
	ast.Walk(decoded.Describe, func(b ast.Block) bool {
		switch b := b.(type) {
		case *ast.Item:
			items = append(items, b)
		case *ast.It:
			its = append(its, b)
		}
		return true
	})

	require.NotEmpty(t, items)
	assert.Equal(t, "import", items[0].Keyword())
	for _, item := range items {
		require.NotEmpty(t, item.Tokens)
		assert.Equal(t, lexer.IDENTIFIER, item.Tokens[0].Type)
	}

	var names []string
	for _, it := range its {
		for _, a := range it.Attributes {
			names = append(names, a.Name())
		}
	}
	assert.Contains(t, names, "ignore")
	assert.Contains(t, names, "should_panic")
	assert.Contains(t, names, "parallel")
}

func TestJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "not json", input: "describe", wantErr: "failed to parse AST"},
		{name: "missing describe", input: `{}`, wantErr: "missing describe"},
		{
			name:    "unknown block type",
			input:   `{"describe":{"name":"x","blocks":[{"type":"bogus"}]}}`,
			wantErr: `unknown block type "bogus"`,
		},
		{
			name:    "malformed attribute",
			input:   `{"describe":{"name":"x","blocks":[{"type":"it","name":"t","attributes":[{"text":"ignore"}],"block":{"text":"{}"}}]}}`,
			wantErr: "malformed",
		},
		{
			name:    "item that does not tokenize",
			input:   `{"describe":{"name":"x","blocks":[{"type":"item","text":"var s = \"open"}]}}`,
			wantErr: "unterminated string literal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ast.ParseBytes([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
