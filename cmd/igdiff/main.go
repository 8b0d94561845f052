package main

import (
	"fmt"
	"os"

	"github.com/fhirtools/igdiff"
	"github.com/fhirtools/igdiff/cmd/igdiff/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("igdiff v%s\n", igdiff.Version())
	case "help", "-h", "--help":
		printUsage()
	case "run":
		if err := commands.HandleRun(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "diff":
		if err := commands.HandleDiff(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "merge":
		if err := commands.HandleMerge(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("igdiff - compare two versions of a published FHIR implementation guide")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  igdiff <command> [flags] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run      Run the full comparison pipeline from a configuration file")
	fmt.Println("  diff     Compare the snapshot tables of two StructureDefinition pages")
	fmt.Println("  merge    Merge two StructureDefinition pages into one comparison page")
	fmt.Println("  mcp      Start the MCP server over stdio")
	fmt.Println("  version  Show version information")
	fmt.Println("  help     Show this help message")
	fmt.Println()
	fmt.Println("Use 'igdiff <command> -h' for command-specific help.")
}
