package main

import (
	"fmt"
	"os"
	"time"

	"github.com/deepnoodle-ai/emergent"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a program",
	Example: `  emergent run model.em
  emergent run -O aggressive --bytecode model.em
  emergent run -c 'sample(normal(0, 1))' --seed 7`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHandler,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("code", "c", "", "code to run")
	f.Bool("stdin", false, "read code from stdin")
	f.Bool("bytecode", false, "run on the register virtual machine")
	f.Int("hot-threshold", 0, "instructions between hot-path compilations (0 keeps the default)")
	f.Bool("no-hot-path", false, "disable the virtual machine hot-path cache")
	f.StringP("output", "o", "", "output format: json or text")
	f.Bool("timing", false, "show execution time")
	cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runHandler(cmd *cobra.Command, args []string) error {
	for _, name := range []string{"bytecode", "hot-threshold", "no-hot-path", "output", "timing"} {
		viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	code, filename, err := readCode(cmd, args, os.Stdin)
	if err != nil {
		return err
	}
	opts, err := engineOptions(filename)
	if err != nil {
		return err
	}
	if viper.GetBool("bytecode") {
		opts = append(opts, emergent.WithBytecode())
	}
	if n := viper.GetInt("hot-threshold"); n > 0 {
		opts = append(opts, emergent.WithHotPathThreshold(n))
	}
	if viper.GetBool("no-hot-path") {
		opts = append(opts, emergent.WithoutHotPath())
	}

	start := time.Now()
	result, err := emergent.Run(cmd.Context(), code, opts...)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	output, err := getOutput(result, viper.GetString("output"))
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
	}
	if viper.GetBool("timing") {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", elapsed)
	}
	return nil
}
