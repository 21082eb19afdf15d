package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfgFile string
	red     = color.New(color.FgRed).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "emergent [file]",
	Short: "Probabilistic scripting language",
	Long: `Run emergent programs with the tree-walking interpreter or the register
virtual machine. With no file, code is read from --code or --stdin.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		processGlobalFlags()
	},
	RunE: runHandler,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.emergent.yaml)")
	pf.StringP("optimize", "O", "none", "optimization level: none, basic, aggressive or extreme")
	pf.Int64("seed", 0, "seed for distributions (random when unset)")
	pf.Bool("strict", false, "treat reads of undefined variables as errors")
	pf.String("modules", "", "directory to import modules from")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	for _, name := range []string{"optimize", "seed", "strict", "modules", "no-color", "log-level"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}

	addRunFlags(rootCmd)

	rootCmd.AddCommand(runCmd, disCmd, astCmd, builtinsCmd, versionCmd)
}

// initConfig reads the config file and EMERGENT_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fatal(err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".emergent")
	}
	viper.SetEnvPrefix("emergent")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fatal(err)
	}
}

// processGlobalFlags applies flags shared by every command.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		fatal(err)
	}
	zerolog.SetGlobalLevel(level)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimRight(formatError(err), "\n"))
		os.Exit(1)
	}
}
