package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/speculate/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

// fixture reads a file from testdata; call it before changing directory.
func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	return data
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGen_WritesTestFile(t *testing.T) {
	t.Setenv("GOPACKAGE", "")
	example := fixture(t, "example.spec")
	inTempDir(t)
	writeFile(t, "widgets/math.spec", example)

	var buf bytes.Buffer
	require.NoError(t, RunGen(&buf, GenOptions{Jobs: 1}, []string{"widgets/math.spec"}))

	code := readFile(t, "widgets/math_spec_test.go")
	assert.Contains(t, code, "// Code generated by speculate from math.spec. DO NOT EDIT.")
	assert.Contains(t, code, "package widgets")
	assert.Contains(t, code, "func TestSpeculate(t *testing.T) {")

	out := buf.String()
	assert.Contains(t, out, "widgets/math_spec_test.go")
	assert.Contains(t, out, "(3 tests)")
	assert.Contains(t, out, "nested function sub lowered to a closure")
}

func TestGen_Flags(t *testing.T) {
	t.Setenv("GOPACKAGE", "fromenv")
	example := fixture(t, "hooks.spec")
	inTempDir(t)
	writeFile(t, "hooks.spec", example)

	var buf bytes.Buffer
	require.NoError(t, RunGen(&buf, GenOptions{Jobs: 1}, []string{"hooks.spec"}))
	assert.Contains(t, readFile(t, "hooks_spec_test.go"), "package fromenv")

	buf.Reset()
	opts := GenOptions{
		Output:      "custom_test.go",
		Package:     "explicit",
		TestName:    "TestHooks",
		UnwindAfter: true,
		Jobs:        1,
	}
	require.NoError(t, RunGen(&buf, opts, []string{"hooks.spec"}))

	code := readFile(t, "custom_test.go")
	assert.Contains(t, code, "package explicit")
	assert.Contains(t, code, "func TestHooks(t *testing.T) {")
	level3 := code[strings.Index(code, `t.Run("works_at_level_3"`):]
	assert.Less(t, strings.Index(level3, "want 3"), strings.Index(level3, "want 6"))
	assert.Contains(t, buf.String(), "custom_test.go")
}

func TestGen_OutputNeedsSingleInput(t *testing.T) {
	var buf bytes.Buffer
	err := RunGen(&buf, GenOptions{Output: "x_test.go", Jobs: 1}, []string{"a.spec", "b.spec"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output needs exactly one input, got 2")
}

func TestGen_ManyFilesReportInInputOrder(t *testing.T) {
	inTempDir(t)
	names := []string{"c.spec", "a.spec", "b.spec", "d.spec"}
	for i, name := range names {
		// File i holds i+1 tests.
		src := ""
		for j := 0; j <= i; j++ {
			src += "it t" + string(rune('a'+j)) + " {}\n"
		}
		writeFile(t, name, []byte(src))
	}

	var buf bytes.Buffer
	require.NoError(t, RunGen(&buf, GenOptions{Package: "p", Jobs: 3}, names))

	counts := []string{"(1 test)", "(2 tests)", "(3 tests)", "(4 tests)"}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(names))
	for i, name := range names {
		assert.Contains(t, lines[i], outputPath(name))
		assert.Contains(t, lines[i], counts[i])
		assert.FileExists(t, outputPath(name))
	}
}

func TestGen_ParseErrorStopsFile(t *testing.T) {
	inTempDir(t)
	writeFile(t, "good.spec", []byte("it ok {}\n"))
	writeFile(t, "bad.spec", []byte("describe math {}\n"))

	var buf bytes.Buffer
	err := RunGen(&buf, GenOptions{Package: "p", Jobs: 1}, []string{"good.spec", "bad.spec"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.spec:1:10: expected string literal, found `math`")

	assert.FileExists(t, "good_spec_test.go")
	assert.NoFileExists(t, "bad_spec_test.go")
	assert.Contains(t, buf.String(), "good_spec_test.go")
}

func TestGen_GenerateErrorNamesFile(t *testing.T) {
	inTempDir(t)
	writeFile(t, "nested.spec", []byte("describe \"x\" {\n\timport \"fmt\"\n}\n"))

	var buf bytes.Buffer
	err := RunGen(&buf, GenOptions{Package: "p", Jobs: 1}, []string{"nested.spec"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generating nested.spec: nested.spec:2:2: imports are only allowed at the top level")
}

func TestParse_PrintsAST(t *testing.T) {
	path := filepath.Join("..", "..", "testdata", "example.spec")

	var buf bytes.Buffer
	require.NoError(t, RunParse(&buf, path, false))

	root, err := ast.ParseBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ast.RootName, root.Describe.Name)
	assert.Len(t, ast.Cases(root, ast.AncestorOrder), 3)
}

func TestParse_Tokens(t *testing.T) {
	inTempDir(t)
	writeFile(t, "t.spec", []byte("it x {}"))

	var buf bytes.Buffer
	require.NoError(t, RunParse(&buf, "t.spec", true))

	var toks []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &toks))
	require.Len(t, toks, 4)
	assert.Equal(t, "it", toks[0]["value"])
	assert.Equal(t, "x", toks[1]["value"])
}

func TestParse_MissingFile(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	err := RunParse(&buf, "nope.spec", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading nope.spec")
}

func TestList(t *testing.T) {
	example := fixture(t, "example.spec")
	inTempDir(t)
	writeFile(t, "math.spec", example)

	var buf bytes.Buffer
	require.NoError(t, RunList(&buf, "math.spec"))
	assert.Equal(t, []string{
		"math/can_add_stuff",
		"math/can_subtract_stuff",
		"math/nested_context_with_additional_details/can_add_stuff_in_nested_context",
	}, strings.Split(strings.TrimSpace(buf.String()), "\n"))
}

func TestList_FromJSON(t *testing.T) {
	example := fixture(t, "example.spec")
	inTempDir(t)
	writeFile(t, "math.spec", example)

	var data bytes.Buffer
	require.NoError(t, RunParse(&data, "math.spec", false))
	writeFile(t, "math.json", data.Bytes())

	var fromSpec, fromJSON bytes.Buffer
	require.NoError(t, RunList(&fromSpec, "math.spec"))
	require.NoError(t, RunList(&fromJSON, "math.json"))
	assert.Equal(t, fromSpec.String(), fromJSON.String())
}

func TestGen_FromJSON(t *testing.T) {
	example := fixture(t, "example.spec")
	inTempDir(t)
	writeFile(t, "math.spec", example)

	var buf bytes.Buffer
	require.NoError(t, RunParse(&buf, "math.spec", false))
	writeFile(t, "json/math.json", buf.Bytes())
	require.NoError(t, RunGen(&buf, GenOptions{Package: "p", Jobs: 1}, []string{"math.spec", "json/math.json"}))

	fromSpec := readFile(t, "math_spec_test.go")
	fromJSON := readFile(t, "json/math_spec_test.go")
	// Only the source named in the header differs.
	assert.Equal(t,
		strings.Replace(fromSpec, "from math.spec.", "", 1),
		strings.Replace(fromJSON, "from math.json.", "", 1))
}

func TestCheck(t *testing.T) {
	inTempDir(t)
	writeFile(t, "good.spec", []byte("it ok {}\n"))
	writeFile(t, "bad.spec", []byte("it ok\n"))

	var buf bytes.Buffer
	err := RunCheck(&buf, 2, []string{"good.spec", "bad.spec"})
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed to parse", err.Error())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "good.spec")
	assert.Contains(t, lines[1], "bad.spec:2:1: expected `{` to open the body of test ok, found end of input")

	buf.Reset()
	require.NoError(t, RunCheck(&buf, 1, []string{"good.spec"}))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "math_spec_test.go", outputPath("math.spec"))
	assert.Equal(t, filepath.Join("a", "b", "x_spec_test.go"), outputPath(filepath.Join("a", "b", "x.spec")))
	assert.Equal(t, "noext_spec_test.go", outputPath("noext"))
}

func TestPackageName(t *testing.T) {
	t.Setenv("GOPACKAGE", "")

	got, err := packageName("flag", "x/y.spec")
	require.NoError(t, err)
	assert.Equal(t, "flag", got)

	got, err = packageName("", filepath.Join("My-Pkg", "y.spec"))
	require.NoError(t, err)
	assert.Equal(t, "my_pkg", got)

	_, err = packageName("", filepath.Join("func", "y.spec"))
	assert.EqualError(t, err, `directory name "func" is a Go keyword; pass --package`)

	t.Setenv("GOPACKAGE", "env")
	got, err = packageName("", "x/y.spec")
	require.NoError(t, err)
	assert.Equal(t, "env", got)
}

func TestGen_ReportsEveryFailingFile(t *testing.T) {
	inTempDir(t)
	writeFile(t, "one.spec", []byte("x\n"))
	writeFile(t, "two.spec", []byte("it\n"))
	writeFile(t, "ok.spec", []byte("it fine {}\n"))

	var buf bytes.Buffer
	err := RunGen(&buf, GenOptions{Package: "p", Jobs: 2}, []string{"one.spec", "ok.spec", "two.spec"})
	require.Error(t, err)

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "one.spec:1:1: "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "two.spec:2:1: expected identifier"), lines[1])
	assert.FileExists(t, "ok_spec_test.go")
}
