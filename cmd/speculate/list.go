package main

import (
	"io"

	"github.com/chazu/speculate/internal/ui"
	"github.com/chazu/speculate/pkg/ast"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the tests a spec file defines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, path string) error {
	root, err := load(path)
	if err != nil {
		return err
	}
	for _, c := range ast.Cases(root, ast.AncestorOrder) {
		ui.CaseLine(w, c.FullName())
	}
	return nil
}
