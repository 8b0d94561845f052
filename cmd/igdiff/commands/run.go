package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/fhirtools/igdiff/internal/cliutil"
	"github.com/fhirtools/igdiff/pipeline"
)

// RunFlags contains flags for the run command
type RunFlags struct {
	Config  string
	Format  string
	Verbose bool
}

// SetupRunFlags creates and configures a FlagSet for the run command.
// Returns the FlagSet and a RunFlags struct with bound flag variables.
func SetupRunFlags() (*flag.FlagSet, *RunFlags) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	flags := &RunFlags{}

	fs.StringVar(&flags.Config, "config", "config.yaml", "path to the comparison configuration file")
	fs.StringVar(&flags.Config, "c", "config.yaml", "path to the comparison configuration file")
	fs.StringVar(&flags.Format, "format", FormatText, "summary output format: text, json, or yaml")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug logging")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: igdiff run [flags]\n\n")
		cliutil.Writef(fs.Output(), "Run the full comparison pipeline: discover artifact ids in both guide\n")
		cliutil.Writef(fs.Output(), "versions, carry removed artifacts into the current output, merge the\n")
		cliutil.Writef(fs.Output(), "shared pages with an injected migration guide, and annotate the\n")
		cliutil.Writef(fs.Output(), "artifact index.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  igdiff run\n")
		cliutil.Writef(fs.Output(), "  igdiff run -c comparison.yaml --format json\n")
	}

	return fs, flags
}

// HandleRun executes the run command
func HandleRun(args []string) error {
	fs, flags := SetupRunFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := pipeline.LoadConfig(flags.Config)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if flags.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.New(cfg, logger).Run(ctx)
	if err != nil {
		return err
	}

	if flags.Format != FormatText {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
	} else {
		printRunResult(result)
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d artifacts failed", len(result.Failed))
	}
	return nil
}

func printRunResult(result *pipeline.RunResult) {
	fmt.Printf("Artifacts: %d shared, %d added, %d removed\n",
		result.Shared, result.Added, result.Removed)
	fmt.Printf("Processed %d pages\n", len(result.Processed))
	for artifactID, err := range result.Failed {
		fmt.Printf("Failed %s: %v\n", artifactID, err)
	}
}
