package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/fhirtools/igdiff/htmldoc"
	"github.com/fhirtools/igdiff/internal/cliutil"
	"github.com/fhirtools/igdiff/merger"
	"github.com/fhirtools/igdiff/snapshot"
)

// MergeFlags contains flags for the merge command
type MergeFlags struct {
	Output        string
	Tables        string
	Tabs          string
	PreviousLabel string
	CurrentLabel  string
}

// SetupMergeFlags creates and configures a FlagSet for the merge command.
// Returns the FlagSet and a MergeFlags struct with bound flag variables.
func SetupMergeFlags() (*flag.FlagSet, *MergeFlags) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	flags := &MergeFlags{}

	fs.StringVar(&flags.Output, "output", "", "path the merged page is written to (required)")
	fs.StringVar(&flags.Output, "o", "", "path the merged page is written to (required)")
	fs.StringVar(&flags.Tables, "tables", snapshot.DefaultContainerID, "comma-separated region ids merged side by side")
	fs.StringVar(&flags.Tabs, "tabs", "", "comma-separated region ids merged as stacked panels")
	fs.StringVar(&flags.PreviousLabel, "prev-label", "previous", "version label for the previous side")
	fs.StringVar(&flags.CurrentLabel, "curr-label", "current", "version label for the current side")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: igdiff merge [flags] <previous> <current>\n\n")
		cliutil.Writef(fs.Output(), "Merge two versions of a StructureDefinition page into one comparison\n")
		cliutil.Writef(fs.Output(), "page: table regions side by side, tab regions stacked under version\n")
		cliutil.Writef(fs.Output(), "headings.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  igdiff merge -o merged.html v1/page.html v2/page.html\n")
		cliutil.Writef(fs.Output(), "  igdiff merge -o merged.html --tabs tabs-all --prev-label 1.0.0 --curr-label 2.0.0 v1/page.html v2/page.html\n")
	}

	return fs, flags
}

// HandleMerge executes the merge command
func HandleMerge(args []string) error {
	fs, flags := SetupMergeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("merge command requires exactly two page paths")
	}
	if flags.Output == "" {
		fs.Usage()
		return fmt.Errorf("merge command requires -output")
	}

	previousDoc, err := htmldoc.Load(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading previous page: %w", err)
	}
	currentDoc, err := htmldoc.Load(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("loading current page: %w", err)
	}

	m := merger.New(flags.PreviousLabel, flags.CurrentLabel)
	if err := m.MergeTables(previousDoc, currentDoc, splitRegionList(flags.Tables)); err != nil {
		return err
	}
	if err := m.MergeTabs(previousDoc, currentDoc, splitRegionList(flags.Tabs)); err != nil {
		return err
	}

	if err := currentDoc.WriteFile(flags.Output); err != nil {
		return err
	}
	fmt.Printf("Merged page written to %s\n", flags.Output)
	return nil
}
