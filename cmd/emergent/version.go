package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if format, _ := cmd.Flags().GetString("output"); format == "json" {
			info := map[string]string{"version": version, "commit": commit, "date": date}
			formatter := prettyjson.NewFormatter()
			formatter.DisabledColor = color.NoColor
			data, err := formatter.Marshal(info)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "emergent %s (commit %s, built %s)\n", version, commit, date)
		return nil
	},
}

func init() {
	versionCmd.Flags().StringP("output", "o", "text", "output format: json or text")
}
