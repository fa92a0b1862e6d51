package main

import (
	"flag"
	"fmt"
	"os"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	command := os.Args[1]

	switch command {
	case "version", "--version", "-v":
		fmt.Printf("dupehash version %s\n", version)
		fmt.Println("Photo hashing and duplicate-detection pipeline")
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	case "scan":
		handleScan()
	case "generate-config":
		handleGenerateConfig()
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown command '%s'\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("dupehash - photo hashing and duplicate-detection pipeline")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  dupehash <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  scan             Hash photos under one or more directories")
	fmt.Println("  generate-config  Write a default configuration file")
	fmt.Println("  version          Show version information")
	fmt.Println("  help             Show this help message")
	fmt.Println("")
	fmt.Println("Run 'dupehash <command> --help' for more information on a command.")
}

func handleScan() {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file path")
	dryRun := fs.Bool("dry-run", false, "Report what would be hashed without writing to the index")
	verbose := fs.Bool("v", false, "Verbose logging")
	veryVerbose := fs.Bool("vv", false, "Very verbose logging")
	threshold := fs.Int("threshold", 0, "Hamming distance threshold for near-duplicates (0 uses the config default)")

	fs.Usage = func() {
		fmt.Println("Usage: dupehash scan <dirs...> [options]")
		fmt.Println("")
		fmt.Println("Hash photos under one or more directories and report duplicates.")
		fmt.Println("")
		fmt.Println("Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: at least one directory is required")
		fs.Usage()
		os.Exit(1)
	}

	if err := scanCommand(fs.Args(), *configPath, *dryRun, *threshold, *verbose || *veryVerbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func handleGenerateConfig() {
	fs := flag.NewFlagSet("generate-config", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Println("Usage: dupehash generate-config [path]")
		fmt.Println("")
		fmt.Println("Write a default configuration file (default path: dupehash.yaml).")
	}
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	path := "dupehash.yaml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if err := generateConfigCommand(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
}
