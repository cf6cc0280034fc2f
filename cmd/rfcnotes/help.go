package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rfcnotes <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  annotate   Render documents with their annotations to HTML")
	fmt.Fprintln(w, "  generate   Generate errata or status annotation files")
	fmt.Fprintln(w, "  doctor     Check sources, assets and output directory")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'rfcnotes help <command>' for details on a specific command.")
}

// printAnnotateUsage prints usage for the annotate command.
func printAnnotateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rfcnotes annotate [documents...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge annotation files into documents and write one HTML page each.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  documents    Document ids (rfc9000, 9000) or rfcNNNN.txt paths")
	fmt.Fprintln(w, "               (default: documents.list, else every document in documents.dir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -d, --documents <dir>        Directory holding rfcNNNN.txt documents")
	fmt.Fprintln(w, "  -a, --annotations <dir>      Annotation directory (repeatable)")
	fmt.Fprintln(w, "  -o, --output <dir>           Output directory")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>            Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	fmt.Fprintln(w, "      --errata <path>          Cached errata JSON list")
	fmt.Fprintln(w, "      --patches <path>         Errata patch file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parsing:")
	fmt.Fprintln(w, "      --stable-threshold <n>   First document number whose line numbers may move")
	fmt.Fprintln(w, "      --no-markdown            Treat markdown bodies as plain text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Assets:")
	fmt.Fprintln(w, "      --policy <name|path>     Sanitization policy (default: default)")
	fmt.Fprintln(w, "      --style <name|path>      Page stylesheet (default: default)")
	fmt.Fprintln(w, "      --asset-path <dir>       Directory overriding embedded assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show debug logs and timing")
	fmt.Fprintln(w, "      --log-format <s>         Log format: text, json")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rfcnotes generate <errata|status> [documents...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write annotation files derived from the cached errata list or registry")
	fmt.Fprintln(w, "index. Existing files are never overwritten.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Kinds:")
	fmt.Fprintln(w, "  errata       One annotation per erratum (needs --errata)")
	fmt.Fprintln(w, "  status       Obsoleted, updated and has-errata notes (needs --index)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -d, --documents <dir>        Directory holding rfcNNNN.txt documents")
	fmt.Fprintln(w, "  -a, --annotations <dir>      Annotation directory (repeatable)")
	fmt.Fprintln(w, "  -o, --output <dir>           Directory for generated files")
	fmt.Fprintln(w, "                               (default: <first annotation dir>/_generated)")
	fmt.Fprintln(w, "      --errata <path>          Cached errata JSON list")
	fmt.Fprintln(w, "      --patches <path>         Errata patch file")
	fmt.Fprintln(w, "      --index <path>           Cached registry index XML")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>         Log format: text, json")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rfcnotes doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that documents, cached sources, assets and the output directory")
	fmt.Fprintln(w, "are usable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                   Print results as JSON")
	fmt.Fprintln(w, "      --index <path>           Cached registry index XML")
	fmt.Fprintln(w, "  -o, --output <dir>           Output directory to check")
	fmt.Fprintln(w, "  -d, --documents <dir>        Directory holding rfcNNNN.txt documents")
	fmt.Fprintln(w, "  -a, --annotations <dir>      Annotation directory (repeatable)")
	fmt.Fprintln(w, "      --errata <path>          Cached errata JSON list")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "annotate":
		printAnnotateUsage(env.Stdout)
	case "generate":
		printGenerateUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: rfcnotes version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: rfcnotes help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
