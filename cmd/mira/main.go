package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mirajs/mira/mira"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "graph":
		return graphCommand(os.Stdout, args[2:])
	case "explore":
		return exploreCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

// loadEntryGraph wires a filesystem loader rooted near the entry file and
// loads the full import graph.
func loadEntryGraph(root, entryPath string, verbose bool) (*mira.ModuleGraph, *mira.Context, error) {
	absEntry, err := filepath.Abs(entryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve entry path: %w", err)
	}
	if root == "" {
		root = filepath.Dir(absEntry)
	}

	loader, err := mira.NewSimpleModuleLoader(root)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(io.Discard)
	if verbose {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel, ReportTimestamp: false})
	}
	cx := mira.NewContext(mira.ContextOptions{
		Loader: loader,
		Logger: logger,
		Realm:  mira.NewRealm("cli"),
	})

	canonicalEntry, err := filepath.EvalSymlinks(absEntry)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve entry path: %w", err)
	}
	specifier, err := filepath.Rel(loader.Root(), canonicalEntry)
	if err != nil {
		return nil, nil, fmt.Errorf("entry %q is not under module root %q: %w", entryPath, loader.Root(), err)
	}

	ctx := context.Background()
	entry, err := cx.LoadImportedModule(ctx, mira.RealmReferrer(cx.Realm()), filepath.ToSlash(specifier))
	if err != nil {
		return nil, nil, err
	}
	graph, err := mira.LoadGraph(ctx, cx, entry)
	if err != nil {
		return nil, nil, err
	}
	return graph, cx, nil
}

func graphCommand(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	root := fs.String("root", "", "module root directory (default: the entry file's directory)")
	verbose := fs.Bool("verbose", false, "log resolution and loading steps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return errors.New("mira graph: entry module path required")
	}

	graph, _, err := loadEntryGraph(*root, remaining[0], *verbose)
	if err != nil {
		return fmt.Errorf("graph failed: %w", err)
	}

	printGraphTree(out, graph)
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("%d modules", graph.Len())))
	return nil
}

var (
	entryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	moduleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	repeatStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
)

func printGraphTree(out io.Writer, graph *mira.ModuleGraph) {
	entry := graph.Entry()
	fmt.Fprintln(out, entryStyle.Render(entry.Path()))
	printed := map[*mira.Module]bool{entry: true}
	printSubtree(out, graph, entry, "  ", printed)
}

func printSubtree(out io.Writer, graph *mira.ModuleGraph, m *mira.Module, indent string, printed map[*mira.Module]bool) {
	for _, dep := range graph.Requires(m) {
		if printed[dep] {
			fmt.Fprintln(out, indent+repeatStyle.Render(dep.Path()+" (seen)"))
			continue
		}
		printed[dep] = true
		fmt.Fprintln(out, indent+moduleStyle.Render(dep.Path()))
		printSubtree(out, graph, dep, indent+"  ", printed)
	}
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] <entry>\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  graph    print the module dependency tree of an entry module")
	fmt.Fprintln(os.Stderr, "  explore  browse the module graph interactively")
	fmt.Fprintln(os.Stderr, "  help     show this message")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -root <dir>")
	fmt.Fprintln(os.Stderr, "    module root directory (default: the entry file's directory)")
	fmt.Fprintln(os.Stderr, "  -verbose")
	fmt.Fprintln(os.Stderr, "    log resolution and loading steps")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
