package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/emergent/builtins"
	"github.com/deepnoodle-ai/emergent/internal/table"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins [name]",
	Short: "Describe the builtin functions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs := builtins.Docs()
		if len(args) > 0 {
			var found []builtins.FuncSpec
			for _, doc := range docs {
				if doc.Name == args[0] {
					found = append(found, doc)
				}
			}
			if len(found) == 0 {
				return fmt.Errorf("unknown builtin: %s", args[0])
			}
			docs = found
		}
		if format, _ := cmd.Flags().GetString("output"); format == "json" {
			data, err := json.MarshalIndent(docs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		rows := make([][]string, 0, len(docs))
		for _, doc := range docs {
			rows = append(rows, []string{
				doc.Name + "(" + strings.Join(doc.Args, ", ") + ")",
				doc.Returns,
				doc.Doc,
			})
		}
		return table.NewTable(cmd.OutOrStdout()).
			WithHeader([]string{"FUNCTION", "RETURNS", "DESCRIPTION"}).
			WithRows(rows).
			Render()
	},
}

func init() {
	builtinsCmd.Flags().StringP("output", "o", "text", "output format: json or text")
}
