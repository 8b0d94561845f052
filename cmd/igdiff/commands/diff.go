package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/htmldoc"
	"github.com/fhirtools/igdiff/internal/cliutil"
	"github.com/fhirtools/igdiff/snapshot"
)

// DiffFlags contains flags for the diff command
type DiffFlags struct {
	ContainerID        string
	NoSuppressChildren bool
	NoInfo             bool
	Format             string
}

// SetupDiffFlags creates and configures a FlagSet for the diff command.
// Returns the FlagSet and a DiffFlags struct with bound flag variables.
func SetupDiffFlags() (*flag.FlagSet, *DiffFlags) {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	flags := &DiffFlags{}

	fs.StringVar(&flags.ContainerID, "container", snapshot.DefaultContainerID, "element id of the snapshot table container")
	fs.BoolVar(&flags.NoSuppressChildren, "no-suppress-children", false, "report changes under wholly added or removed elements too")
	fs.BoolVar(&flags.NoInfo, "no-info", false, "exclude informational changes from output")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: igdiff diff [flags] <previous> <current>\n\n")
		cliutil.Writef(fs.Output(), "Compare the rendered snapshot tables of two StructureDefinition pages\n")
		cliutil.Writef(fs.Output(), "and report structural changes.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nSeverities:\n")
		cliutil.Writef(fs.Output(), "  critical  Mandatory element removed\n")
		cliutil.Writef(fs.Output(), "  breaking  Mandatory element added, or cardinality tightened\n")
		cliutil.Writef(fs.Output(), "  info      Everything else\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  igdiff diff v1/StructureDefinition-patient.html v2/StructureDefinition-patient.html\n")
		cliutil.Writef(fs.Output(), "  igdiff diff --no-info --format json old.html new.html\n")
		cliutil.Writef(fs.Output(), "\nExit Status:\n")
		cliutil.Writef(fs.Output(), "  0    No breaking changes\n")
		cliutil.Writef(fs.Output(), "  1    Breaking changes found\n")
	}

	return fs, flags
}

// HandleDiff executes the diff command
func HandleDiff(args []string) error {
	fs, flags := SetupDiffFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("diff command requires exactly two page paths")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	previousDoc, err := htmldoc.Load(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading previous page: %w", err)
	}
	currentDoc, err := htmldoc.Load(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("loading current page: %w", err)
	}

	extractor := snapshot.New()
	extractor.ContainerID = flags.ContainerID

	result, err := differ.DiffWithOptions(
		differ.WithPrevious(extractor.Extract(previousDoc)),
		differ.WithCurrent(extractor.Extract(currentDoc)),
		differ.WithSuppressChildren(!flags.NoSuppressChildren),
		differ.WithIncludeInfo(!flags.NoInfo),
	)
	if err != nil {
		return err
	}

	if flags.Format != FormatText {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
	} else {
		printDiffResult(result)
	}

	if result.HasBreakingChanges {
		return fmt.Errorf("breaking changes found")
	}
	return nil
}

func printDiffResult(result *differ.DiffResult) {
	fmt.Printf("Compared %d previous against %d current elements\n",
		result.PreviousCount, result.CurrentCount)
	if len(result.Changes) == 0 {
		fmt.Println("No structural changes detected.")
		return
	}
	fmt.Printf("%d changes (%d breaking, %d warnings, %d informational)\n\n",
		len(result.Changes), result.BreakingCount, result.WarningCount, result.InfoCount)
	for _, change := range result.Changes {
		fmt.Println(change.String())
	}
}
