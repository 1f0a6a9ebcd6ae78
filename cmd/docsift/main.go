package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/docproc"
	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/mcp"
	"github.com/docsift/docsift/internal/store"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "batch":
		err = runBatch(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "show":
		err = runShow(os.Args[2:])
	case "search":
		err = runSearch(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "templates":
		err = runTemplates(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("docsift %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags holds the flags every subcommand accepts.
type commonFlags struct {
	configPath string
	dbPath     string
	templates  string
}

// splitFlags separates common flags from the rest of the arguments.
func splitFlags(args []string) (commonFlags, []string, error) {
	var cf commonFlags
	var rest []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" && i+1 < len(args):
			i++
			cf.configPath = args[i]
		case args[i] == "--db" && i+1 < len(args):
			i++
			cf.dbPath = args[i]
		case args[i] == "--templates" && i+1 < len(args):
			i++
			cf.templates = args[i]
		default:
			rest = append(rest, args[i])
		}
	}
	return cf, rest, nil
}

func resolve(cf commonFlags) (config.ResolvedConfig, error) {
	return config.ResolveConfig(config.ResolveOptions{
		ConfigPath:   cf.configPath,
		CLIDBPath:    cf.dbPath,
		CLITemplates: cf.templates,
	})
}

func newPipeline(resolved config.ResolvedConfig) (*docproc.Pipeline, error) {
	var opts []docproc.Option
	if v := config.FloatSetting(resolved.MinConfidence, 0); v > 0 {
		opts = append(opts, docproc.WithMinConfidence(v))
	}
	if v := config.FloatSetting(resolved.SparseCeiling, 0); v > 0 {
		opts = append(opts, docproc.WithSparseCeiling(v))
	}
	if v := config.IntSetting(resolved.ProximityWindow, 0); v > 0 {
		opts = append(opts, docproc.WithProximityWindow(v))
	}
	return docproc.New(resolved.Templates.Value, opts...)
}

func openStore(resolved config.ResolvedConfig) (store.Store, error) {
	return store.NewStore(store.StoreConfig{DBPath: resolved.DBPath.Value})
}

func runParse(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}

	noSave := false
	var paths []string
	for _, arg := range rest {
		switch {
		case arg == "--no-save":
			noSave = true
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			paths = append(paths, arg)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("usage: docsift parse <file> [--no-save] [--db <path>] [--templates <path>]")
	}

	resolved, err := resolve(cf)
	if err != nil {
		return err
	}
	pipeline, err := newPipeline(resolved)
	if err != nil {
		return err
	}

	var st store.Store
	if !noSave {
		st, err = openStore(resolved)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()
	}

	ctx := context.Background()
	for _, path := range paths {
		in, err := ingest.ReadFile(path, 0)
		if err != nil {
			return err
		}
		res := pipeline.Process(in)

		if st != nil {
			doc, err := st.SaveResult(ctx, res)
			if err != nil {
				return fmt.Errorf("saving result: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Saved document %s\n", doc.ID)
		}

		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}

func runBatch(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}

	recursive := false
	workers := ""
	var roots []string
	for i := 0; i < len(rest); i++ {
		switch {
		case rest[i] == "--recursive" || rest[i] == "-r":
			recursive = true
		case rest[i] == "--workers" && i+1 < len(rest):
			i++
			workers = rest[i]
		case strings.HasPrefix(rest[i], "-"):
			return fmt.Errorf("unknown flag: %s", rest[i])
		default:
			roots = append(roots, rest[i])
		}
	}
	if len(roots) == 0 {
		return fmt.Errorf("usage: docsift batch <dir> [--recursive] [--workers <n>]")
	}

	resolved, err := resolve(cf)
	if err != nil {
		return err
	}
	if workers != "" {
		resolved.Workers = config.ResolvedValue{Value: workers, Source: config.SourceCLI, From: "--workers"}
	}

	pipeline, err := newPipeline(resolved)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	engine := ingest.NewEngine(pipeline, st, ingest.WithWorkers(resolved.WorkerCount(ingest.DefaultWorkers)))

	var paths []string
	for _, root := range roots {
		found, err := ingest.DiscoverFiles(root, recursive)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		fmt.Println("No supported files found")
		return nil
	}

	result, err := engine.ProcessBatch(context.Background(), paths, func(current, total int, file string) {
		fmt.Printf("  [%d/%d] %s\n", current, total, file)
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Scanned:   %d\n", result.FilesScanned)
	fmt.Printf("Processed: %d\n", result.FilesProcessed)
	fmt.Printf("Failed:    %d\n", result.FilesFailed)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", e.File, e.Message)
	}
	return nil
}

func runList(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}

	opts := store.ListOpts{Limit: 20}
	asJSON := false
	for i := 0; i < len(rest); i++ {
		switch {
		case rest[i] == "--type" && i+1 < len(rest):
			i++
			opts.DocumentType = rest[i]
		case rest[i] == "--limit" && i+1 < len(rest):
			i++
			fmt.Sscanf(rest[i], "%d", &opts.Limit)
		case rest[i] == "--sort" && i+1 < len(rest):
			i++
			opts.SortBy = rest[i]
		case rest[i] == "--json":
			asJSON = true
		default:
			return fmt.Errorf("unknown argument: %s", rest[i])
		}
	}

	resolved, err := resolve(cf)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	docs, err := st.ListDocuments(context.Background(), opts)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		fmt.Println("No documents")
		return nil
	}
	fmt.Printf("%-36s  %-13s  %5s  %-19s  %s\n", "ID", "TYPE", "CONF", "PROCESSED", "FILE")
	for _, d := range docs {
		fmt.Printf("%-36s  %-13s  %5.2f  %-19s  %s\n",
			d.ID, d.DocumentType, d.Confidence,
			d.ProcessedAt.UTC().Format("2006-01-02 15:04:05"), d.Filename)
	}
	return nil
}

func runShow(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: docsift show <document-id>")
	}
	id := rest[0]

	resolved, err := resolve(cf)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	doc, err := st.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", id)
	}

	payload := map[string]interface{}{"document": doc}
	if cc, err := st.GetCapitalCall(ctx, id); err == nil && cc != nil {
		payload["capital_call_details"] = cc
	}
	if dd, err := st.GetDistribution(ctx, id); err == nil && dd != nil {
		payload["distribution_details"] = dd
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runSearch(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}

	limit := 10
	var terms []string
	for i := 0; i < len(rest); i++ {
		switch {
		case rest[i] == "--limit" && i+1 < len(rest):
			i++
			fmt.Sscanf(rest[i], "%d", &limit)
		case strings.HasPrefix(rest[i], "-"):
			return fmt.Errorf("unknown flag: %s", rest[i])
		default:
			terms = append(terms, rest[i])
		}
	}
	if len(terms) == 0 {
		return fmt.Errorf("usage: docsift search <query> [--limit <n>]")
	}

	resolved, err := resolve(cf)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	results, err := st.SearchDocuments(context.Background(), strings.Join(terms, " "), limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s  %-13s  %.2f  %s\n", r.Document.ID, r.Document.DocumentType, r.Document.Confidence, r.Document.Filename)
		if r.Snippet != "" {
			fmt.Printf("    %s\n", r.Snippet)
		}
	}
	return nil
}

func runStats(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("usage: docsift stats")
	}

	resolved, err := resolve(cf)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	stats, err := st.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Documents:      %d\n", stats.DocumentCount)
	fmt.Printf("Avg confidence: %.2f\n", stats.AvgConfidence)
	fmt.Printf("DB size:        %d bytes\n", stats.DBSizeBytes)
	if len(stats.TypeCounts) > 0 {
		fmt.Println("By type:")
		for _, typ := range sortedKeys(stats.TypeCounts) {
			fmt.Printf("  %-13s %d\n", typ, stats.TypeCounts[typ])
		}
	}
	return nil
}

func runConfig(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("usage: docsift config")
	}

	resolved, err := resolve(cf)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runServe(args []string) error {
	cf, rest, err := splitFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("usage: docsift serve [--db <path>] [--templates <path>]")
	}

	resolved, err := resolve(cf)
	if err != nil {
		return err
	}
	pipeline, err := newPipeline(resolved)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	srv := mcp.NewServer(mcp.ServerConfig{Store: st, Pipeline: pipeline, Version: version})
	return mcpserver.ServeStdio(srv)
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

func printUsage() {
	fmt.Printf(`docsift %s — Document classification and field extraction

Usage:
  docsift <command> [arguments]

Commands:
  parse <file>        Process one document and print the result as JSON
  batch <dir>         Process every supported file in a directory
  list                List stored documents
  show <id>           Show one stored document with its detail rows
  search <query>      Full-text search over extracted text
  stats               Show store statistics
  templates <path>    Validate a document template file
  config              Print the effective configuration
  serve               Run the MCP server on stdio
  version             Print version

Common Flags:
  --config <path>     Config file (default ~/.docsift/config.yaml)
  --db <path>         Database file (default ~/.docsift/docsift.db)
  --templates <path>  Document template file

Batch Flags:
  -r, --recursive     Recurse into subdirectories
  --workers <n>       Worker pool size

Parse Flags:
  --no-save           Print the result without persisting it
`, version)
}
