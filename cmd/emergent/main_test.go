package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/emergent"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func init() {
	color.NoColor = true
}

func newInputCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("code", "c", "", "")
	cmd.Flags().Bool("stdin", false, "")
	return cmd
}

func TestReadCode(t *testing.T) {
	cmd := newInputCommand()
	require.Nil(t, cmd.Flags().Set("code", "1 + 1"))
	code, filename, err := readCode(cmd, nil, nil)
	require.Nil(t, err)
	require.Equal(t, "1 + 1", code)
	require.Equal(t, "", filename)

	cmd = newInputCommand()
	require.Nil(t, cmd.Flags().Set("stdin", "true"))
	code, _, err = readCode(cmd, nil, strings.NewReader("print(1)"))
	require.Nil(t, err)
	require.Equal(t, "print(1)", code)

	path := filepath.Join(t.TempDir(), "prog.em")
	require.Nil(t, os.WriteFile(path, []byte("let x = 1"), 0o644))
	code, filename, err = readCode(newInputCommand(), []string{path}, nil)
	require.Nil(t, err)
	require.Equal(t, "let x = 1", code)
	require.Equal(t, path, filename)
}

func TestReadCodeErrors(t *testing.T) {
	_, _, err := readCode(newInputCommand(), nil, nil)
	require.EqualError(t, err, "no input provided")

	cmd := newInputCommand()
	require.Nil(t, cmd.Flags().Set("code", "1"))
	_, _, err = readCode(cmd, []string{"file.em"}, nil)
	require.EqualError(t, err, "multiple input sources specified")
}

func TestGetOutput(t *testing.T) {
	out, err := getOutput(object.Nil, "")
	require.Nil(t, err)
	require.Equal(t, "", out)

	list := object.NewList([]object.Object{object.NewNumber(1), object.NewString("a")})
	out, err = getOutput(list, "json")
	require.Nil(t, err)
	var decoded []any
	require.Nil(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, []any{1.0, "a"}, decoded)

	out, err = getOutput(list, "text")
	require.Nil(t, err)
	require.Equal(t, `[1, "a"]`, out)

	_, err = getOutput(list, "xml")
	require.EqualError(t, err, "unknown output format: xml")
}

func TestFormatErrorSuggestsBuiltins(t *testing.T) {
	_, err := emergent.Run(context.Background(), "normall(0, 1)", emergent.WithFilename("m.em"))
	require.NotNil(t, err)
	text := formatError(err)
	require.Contains(t, text, "undefined function: normall")
	require.Contains(t, text, "--> m.em:1:1")
	require.Contains(t, text, "did you mean 'normal'?")
}

func TestFormatParseError(t *testing.T) {
	_, err := emergent.Run(context.Background(), "let = 1")
	require.NotNil(t, err)
	require.Contains(t, formatError(err), "1:")
}

func TestPrintAST(t *testing.T) {
	program, err := emergent.Parse(context.Background(), "let x: number = 1 + 2\nx")
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, printAST(&buf, program, "text"))
	text := buf.String()
	require.Contains(t, text, "Program\n")
	require.Contains(t, text, "  Let number\n")
	require.Contains(t, text, "    Infix +\n")
	require.Contains(t, text, "      Number 1\n")

	buf.Reset()
	require.Nil(t, printAST(&buf, program, "json"))
	var tree astNode
	require.Nil(t, json.Unmarshal(buf.Bytes(), &tree))
	require.Equal(t, "Program", tree.Type)
	require.Len(t, tree.Children, 2)
	require.Equal(t, "Let", tree.Children[0].Type)
	require.Equal(t, 2, tree.Children[1].Line)

	buf.Reset()
	require.Nil(t, printAST(&buf, program, "yaml"))
	var fromYAML astNode
	require.Nil(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	require.Equal(t, "Program", fromYAML.Type)
	require.Len(t, fromYAML.Children, 2)

	require.NotNil(t, printAST(&buf, program, "xml"))
}

func TestDisCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"dis", "-c", "def f(x) { x + 1 }\nf(2)", "--func", "f", "--stats"})
	defer rootCmd.SetArgs(nil)
	require.Nil(t, rootCmd.Execute())
	text := out.String()
	require.Contains(t, text, "f:")
	require.Contains(t, text, "RETURN")
	require.NotContains(t, text, "HALT")
	require.Contains(t, text, "functions: 1")
}

func TestSeedZeroIsReproducible(t *testing.T) {
	source := "[sample(uniform(0, 1000000)), sample(normal(0, 1))]"
	runOnce := func() string {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"run", "-c", source, "--seed", "0", "-o", "text"})
		require.Nil(t, rootCmd.Execute())
		return strings.TrimSpace(out.String())
	}
	defer rootCmd.SetArgs(nil)
	first := runOnce()
	require.Equal(t, first, runOnce())

	expected, err := emergent.Run(context.Background(), source, emergent.WithSeed(0))
	require.Nil(t, err)
	require.Equal(t, expected.Inspect(), first)
}

func TestBuiltinsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"builtins", "sample"})
	defer rootCmd.SetArgs(nil)
	require.Nil(t, rootCmd.Execute())
	require.Contains(t, out.String(), "sample(")
	require.NotContains(t, out.String(), "bernoulli")
}
