package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/specialistvlad/segprep/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `
segprep - segmentation dataset manifests and fine-tuning experiment launcher.

Usage:
  segprep manifest [options] CONFIG_PATH...
  segprep finetune [options] CONFIG_PATH...

Commands:
  manifest   Build train/val/test annotation manifests for the datasets in CONFIG_PATH.
  finetune   Run one training command per (model, dataset, prompt) of the plan in CONFIG_PATH.

Arguments:
  CONFIG_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options go before the first CONFIG_PATH. Run 'segprep <command> -h' for the
options of a command.
`

// optionalInt64 is a flag.Value that records whether it was set.
type optionalInt64 struct {
	value *int64
}

func (o *optionalInt64) String() string {
	if o.value == nil {
		return ""
	}
	return strconv.FormatInt(*o.value, 10)
}

func (o *optionalInt64) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	o.value = &v
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	if len(args) == 0 {
		fmt.Fprint(output, usage)
		return nil, true, nil
	}
	command := args[0]
	switch command {
	case "-h", "-help", "--help", "help":
		fmt.Fprint(output, usage)
		return nil, true, nil
	case app.CommandManifest, app.CommandFinetune:
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q: must be 'manifest' or 'finetune'", command)}
	}

	flagSet := flag.NewFlagSet("segprep "+command, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprintf(output, "\nUsage:\n  segprep %s [options] CONFIG_PATH...\n\nOptions (before any CONFIG_PATH):\n", command)
		flagSet.PrintDefaults()
	}

	cfg := app.Config{Command: command}
	var seed, idSeed optionalInt64

	configFlag := flagSet.String("config", "", "Path to a config file or directory. Positional paths are added after it.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	switch command {
	case app.CommandManifest:
		flagSet.StringVar(&cfg.Dataset, "dataset", "", "Build only the named dataset.")
		flagSet.Var(&seed, "seed", "Seed for the split shuffle. Overrides the dataset setting.")
		flagSet.Var(&idSeed, "id-seed", "Seed for segment ids. Overrides the dataset setting.")
		flagSet.StringVar(&cfg.BBox, "bbox", "", "Bounding box policy: 'fixed' or 'mask'. Overrides the dataset setting.")
	case app.CommandFinetune:
		flagSet.BoolVar(&cfg.DryRun, "dry-run", false, "Print every command without running it.")
		flagSet.BoolVar(&cfg.Debug, "debug", false, "Append debug=default to every command.")
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	// flag stops at the first positional argument, so a later option would
	// otherwise be taken for a path.
	for _, arg := range flagSet.Args() {
		if strings.HasPrefix(arg, "-") {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("option %s must come before the config paths", arg)}
		}
	}

	if *configFlag != "" {
		cfg.ConfigPaths = append(cfg.ConfigPaths, *configFlag)
	}
	cfg.ConfigPaths = append(cfg.ConfigPaths, flagSet.Args()...)
	if len(cfg.ConfigPaths) == 0 {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg.LogFormat = strings.ToLower(*logFormatFlag)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(*logLevelFlag)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	cfg.Seed = seed.value
	cfg.IDSeed = idSeed.value
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
