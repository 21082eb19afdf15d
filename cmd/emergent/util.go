package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/emergent"
	"github.com/deepnoodle-ai/emergent/builtins"
	"github.com/deepnoodle-ai/emergent/errors"
	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/optimizer"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newLogger() zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: color.NoColor || !isTerminal(os.Stderr),
	}
	return zerolog.New(writer).With().Timestamp().Logger()
}

// engineOptions translates the shared flags into engine options.
func engineOptions(filename string) ([]emergent.Option, error) {
	level, err := optimizer.ParseLevel(viper.GetString("optimize"))
	if err != nil {
		return nil, err
	}
	opts := []emergent.Option{
		emergent.WithOptimization(level),
		emergent.WithLogger(newLogger()),
	}
	if viper.IsSet("seed") {
		opts = append(opts, emergent.WithSeed(viper.GetInt64("seed")))
	}
	if viper.GetBool("strict") {
		opts = append(opts, emergent.WithStrictVariables())
	}
	if dir := viper.GetString("modules"); dir != "" {
		opts = append(opts, emergent.WithLocalImporter(dir))
	}
	if filename != "" {
		opts = append(opts, emergent.WithFilename(filename))
	}
	return opts, nil
}

// readCode determines the code to process. There are three possibilities:
// --code <code>, --stdin, or a path given as args[0].
func readCode(cmd *cobra.Command, args []string, stdin io.Reader) (string, string, error) {
	var codeSet, stdinSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeSet = true
	}
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinSet = true
	}
	sources := 0
	for _, set := range []bool{codeSet, stdinSet, len(args) > 0} {
		if set {
			sources++
		}
	}
	switch {
	case sources > 1:
		return "", "", stderrors.New("multiple input sources specified")
	case sources == 0:
		return "", "", stderrors.New("no input provided")
	case stdinSet:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "", nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	}
	code, _ := cmd.Flags().GetString("code")
	return code, "", nil
}

func getOutput(result object.Object, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		// Nil prints nothing. Values that marshal to JSON are printed as
		// JSON, anything else as its inspected form.
		if result == object.Nil {
			return "", nil
		}
		switch result.(type) {
		case *object.Function, *object.Builtin:
			return result.Inspect(), nil
		}
		output, err := getOutputJSON(result)
		if err != nil {
			return result.Inspect(), nil
		}
		return string(output), nil
	case "json":
		output, err := getOutputJSON(result)
		if err != nil {
			return "", err
		}
		return string(output), nil
	case "text":
		return result.Inspect(), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(result object.Object) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(result.Interface(), "", "  ")
	}
	return prettyjson.Marshal(result.Interface())
}

// formatError renders an engine error with source context when available,
// adding spelling suggestions for unknown names.
func formatError(err error) string {
	var formattable errors.FormattableError
	if !stderrors.As(err, &formattable) {
		return red(err.Error())
	}
	formatted := formattable.ToFormatted()
	var se *errz.StructuredError
	if stderrors.As(err, &se) && se.Kind == errz.ErrName && formatted.Hint == "" {
		formatted.Hint = errors.FormatSuggestions(errors.SuggestSimilar(undefinedName(se.Message), builtinNames()))
	}
	return errors.NewFormatter(!color.NoColor).Format(formatted)
}

func undefinedName(message string) string {
	if i := strings.LastIndex(message, ": "); i >= 0 {
		return message[i+2:]
	}
	return ""
}

func builtinNames() []string {
	names := make([]string, 0, len(builtins.Builtins()))
	for name := range builtins.Builtins() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
