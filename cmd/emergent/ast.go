package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/deepnoodle-ai/emergent"
	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var astCmd = &cobra.Command{
	Use:   "ast [file]",
	Short: "Display the syntax tree of a program",
	Long: `Display the syntax tree of a program after optimization. The text format
prints the canonical source followed by the tree; json and yaml print the
tree only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: astHandler,
}

func init() {
	f := astCmd.Flags()
	f.StringP("code", "c", "", "code to parse")
	f.Bool("stdin", false, "read code from stdin")
	f.StringP("output", "o", "text", "output format: text, json or yaml")
}

// astNode is a node of the serialized syntax tree.
type astNode struct {
	Type     string     `json:"type" yaml:"type"`
	Value    any        `json:"value,omitempty" yaml:"value,omitempty"`
	Line     int        `json:"line,omitempty" yaml:"line,omitempty"`
	Children []*astNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// treeBuilder is an ast.Visitor that mirrors the tree it walks.
type treeBuilder struct {
	node *astNode
}

func (b *treeBuilder) Visit(node ast.Node) ast.Visitor {
	child := newASTNode(node)
	b.node.Children = append(b.node.Children, child)
	return &treeBuilder{node: child}
}

func newASTNode(node ast.Node) *astNode {
	result := &astNode{Type: reflect.TypeOf(node).Elem().Name()}
	if _, isProgram := node.(*ast.Program); !isProgram {
		result.Line = node.Pos().LineNumber()
	}
	switch n := node.(type) {
	case *ast.Ident:
		result.Value = n.Name
	case *ast.Number:
		result.Value = n.Value
	case *ast.String:
		result.Value = n.Value
	case *ast.Bool:
		result.Value = n.Value
	case *ast.Prefix:
		result.Value = n.Op
	case *ast.Infix:
		result.Value = n.Op
	case *ast.Let:
		if n.Hint != "" {
			result.Value = n.Hint
		}
	case *ast.Def:
		if n.ReturnHint != "" {
			result.Value = n.ReturnHint
		}
	}
	return result
}

func buildTree(program *ast.Program) *astNode {
	holder := &astNode{}
	ast.Walk(&treeBuilder{node: holder}, program)
	return holder.Children[0]
}

func astHandler(cmd *cobra.Command, args []string) error {
	source, filename, err := readCode(cmd, args, os.Stdin)
	if err != nil {
		return err
	}
	opts, err := engineOptions(filename)
	if err != nil {
		return err
	}
	program, err := emergent.Parse(cmd.Context(), source, opts...)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("output")
	return printAST(cmd.OutOrStdout(), program, format)
}

func printAST(w io.Writer, program *ast.Program, format string) error {
	tree := buildTree(program)
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		fmt.Fprintln(w, program.String())
		fmt.Fprintln(w)
		printTree(w, tree, 0)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

var (
	nodeType  = color.New(color.FgCyan).SprintFunc()
	nodeValue = color.New(color.FgYellow).SprintFunc()
)

func printTree(w io.Writer, node *astNode, depth int) {
	line := strings.Repeat("  ", depth) + nodeType(node.Type)
	if node.Value != nil {
		line += " " + nodeValue(fmt.Sprintf("%v", node.Value))
	}
	fmt.Fprintln(w, line)
	for _, child := range node.Children {
		printTree(w, child, depth+1)
	}
}
