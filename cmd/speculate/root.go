package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/speculate/internal/ui"
	"github.com/chazu/speculate/pkg/ast"
	"github.com/chazu/speculate/pkg/parser"
	"github.com/spf13/cobra"
)

const versionStr = "0.3.0"

var rootCmd = &cobra.Command{
	Use:     "speculate",
	Short:   "Compile nested describe/it specs into Go tests",
	Version: versionStr,
	// Diagnostics are printed by Execute.
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.ErrorLine(os.Stderr, err)
		os.Exit(1)
	}
}

// load reads a spec file, or a JSON AST when the name ends in .json.
func load(path string) (*ast.Root, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		root, err := ast.ParseBytes(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return root, nil
	}
	return parser.Parse(path, src)
}
