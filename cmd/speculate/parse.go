package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chazu/speculate/pkg/ast"
	"github.com/chazu/speculate/pkg/lexer"
	"github.com/spf13/cobra"
)

var parseTokens bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the AST of a spec file as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunParse(cmd.OutOrStdout(), args[0], parseTokens)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseTokens, "tokens", false, "print the token stream instead of the AST")
	rootCmd.AddCommand(parseCmd)
}

func RunParse(w io.Writer, path string, tokens bool) error {
	if tokens {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		defer f.Close()
		l, err := lexer.NewFromReader(path, f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		out, err := l.TokenizeJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, out)
		return nil
	}

	root, err := load(path)
	if err != nil {
		return err
	}
	data, err := ast.Marshal(root)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
