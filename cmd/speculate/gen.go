package main

import (
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chazu/speculate/internal/ui"
	"github.com/chazu/speculate/pkg/ast"
	"github.com/chazu/speculate/pkg/codegen"
	"github.com/chazu/speculate/pkg/ident"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// GenOptions holds the flags of the gen command.
type GenOptions struct {
	Output      string
	Package     string
	TestName    string
	UnwindAfter bool
	Jobs        int
}

var genOpts GenOptions

var genCmd = &cobra.Command{
	Use:   "gen <file>...",
	Short: "Generate Go test files from spec files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunGen(cmd.OutOrStdout(), genOpts, args)
	},
}

func init() {
	genCmd.Flags().StringVarP(&genOpts.Output, "output", "o", "", "output file (single input only)")
	genCmd.Flags().StringVar(&genOpts.Package, "package", "", "package name (default $GOPACKAGE, then the directory name)")
	genCmd.Flags().StringVar(&genOpts.TestName, "test-name", "", "top-level test function (default TestSpeculate)")
	genCmd.Flags().BoolVar(&genOpts.UnwindAfter, "unwind-after", false, "run after hooks of inner groups before outer ones")
	genCmd.Flags().IntVarP(&genOpts.Jobs, "jobs", "j", runtime.NumCPU(), "files processed concurrently")
	rootCmd.AddCommand(genCmd)
}

type genResult struct {
	out    string
	result *codegen.Result
}

func RunGen(w io.Writer, opts GenOptions, paths []string) error {
	if opts.Output != "" && len(paths) > 1 {
		return fmt.Errorf("--output needs exactly one input, got %d", len(paths))
	}

	results := make([]*genResult, len(paths))
	errs := make([]error, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(max(opts.Jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			// A failing file does not stop the others.
			results[i], errs[i] = genFile(opts, path)
			return nil
		})
	}
	_ = g.Wait()

	var result *multierror.Error
	for i, res := range results {
		if errs[i] != nil {
			result = multierror.Append(result, errs[i])
			continue
		}
		for _, warning := range res.result.Warnings {
			ui.WarnLine(w, warning)
		}
		ui.GenLine(w, res.out, res.result.Cases)
	}
	if result != nil {
		result.ErrorFormat = oneErrorPerLine
	}
	return result.ErrorOrNil()
}

func oneErrorPerLine(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

func genFile(opts GenOptions, path string) (*genResult, error) {
	root, err := load(path)
	if err != nil {
		return nil, err
	}

	pkg, err := packageName(opts.Package, path)
	if err != nil {
		return nil, err
	}

	order := ast.AncestorOrder
	if opts.UnwindAfter {
		order = ast.UnwindOrder
	}

	result, err := codegen.Generate(root, codegen.Options{
		Package:    pkg,
		TestName:   opts.TestName,
		Source:     filepath.Base(path),
		AfterOrder: order,
	})
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", path, err)
	}

	out := opts.Output
	if out == "" {
		out = outputPath(path)
	}
	if err := os.WriteFile(out, []byte(result.Code), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", out, err)
	}
	return &genResult{out: out, result: result}, nil
}

// outputPath maps dir/name.spec to dir/name_spec_test.go.
func outputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_spec_test.go"
}

func packageName(flag, path string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("GOPACKAGE"); env != "" {
		return env, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	name := ident.Sanitize(strings.ToLower(filepath.Base(filepath.Dir(abs))))
	if token.IsKeyword(name) {
		return "", fmt.Errorf("directory name %q is a Go keyword; pass --package", name)
	}
	return name, nil
}
