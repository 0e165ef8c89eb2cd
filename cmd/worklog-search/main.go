// Package main is the worklog search CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/championcp/worklog-search/internal/cli"
	"github.com/championcp/worklog-search/internal/config"
	"github.com/championcp/worklog-search/internal/models"
	"github.com/championcp/worklog-search/internal/search"
	"github.com/championcp/worklog-search/internal/server"
	"github.com/championcp/worklog-search/internal/storage"
	"github.com/championcp/worklog-search/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/worklog/config.yaml"

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if that
// exists it is used. Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "history":
		runHistory()
	case "cleanup":
		runCleanup()
	case "version", "--version", "-v":
		fmt.Printf("worklog-search version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	engine := search.NewEngine(store, logger)
	srv := server.NewServer(engine, store, cfg, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	cfgWatcher := config.NewWatcher(resolvedConfigPath, srv.ApplyConfig, logger)
	if err := cfgWatcher.Start(watchCtx); err != nil {
		logger.Warn("config watcher failed to start", zap.Error(err))
	} else {
		defer cfgWatcher.Stop()
	}

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: worklog-search search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  worklog-search search weekly report
  worklog-search search --type task deploy           # tasks only
  worklog-search search --status pending,in_progress --tags 3,7 --tag-logic and deploy
  worklog-search search --output json release notes
`)
}

func outputFormat(name string) (cli.SearchOutputFormat, error) {
	switch name {
	case "json":
		return cli.OutputJSON, nil
	case "compact":
		return cli.OutputCompact, nil
	case "text":
		return cli.OutputText, nil
	}
	return cli.OutputText, fmt.Errorf("unknown output format %q; use text, compact, or json", name)
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	userID := fs.Int64("user", 1, "user id to search as")
	entityType := fs.String("type", "", "restrict to one entity type: task, project, category, or tag")
	limit := fs.Int("limit", 0, "number of results (0 = config default)")
	offset := fs.Int("offset", 0, "results to skip")
	statusList := fs.String("status", "", "comma-separated status filter (advanced search)")
	priorityList := fs.String("priority", "", "comma-separated priority filter (advanced search)")
	tagList := fs.String("tags", "", "comma-separated tag ids (advanced search)")
	tagLogic := fs.String("tag-logic", "or", "tag combinator: or, and")
	projectList := fs.String("projects", "", "comma-separated project ids (advanced search)")
	sortBy := fs.String("sort", "relevance", "sort key: relevance, created, updated, priority, deadline")
	sortOrder := fs.String("order", "desc", "sort order: asc, desc")
	format := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	outFormat, err := outputFormat(*format)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	scope := models.EntityType(*entityType)
	if *entityType != "" && !scope.Valid() {
		fmt.Printf("Unknown entity type %q; use task, project, category, or tag\n", *entityType)
		os.Exit(1)
	}

	filters := &models.SearchFilters{
		Status:   splitList(*statusList),
		Priority: splitList(*priorityList),
		Tags:     splitIDs(*tagList),
		Projects: splitIDs(*projectList),
		TagLogic: models.TagLogic(*tagLogic),
	}
	advanced := !filters.IsZero()
	if queryStr == "" && !advanced {
		printSearchUsage(fs)
		os.Exit(1)
	}

	engine, store, ok := openEngine(*configPath)
	if !ok {
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	var response *models.SearchResponse
	if advanced {
		criteria := &models.AdvancedSearchCriteria{
			Keywords:  queryStr,
			Filters:   filters,
			SortBy:    *sortBy,
			SortOrder: *sortOrder,
			Limit:     *limit,
			Offset:    *offset,
		}
		response, err = engine.AdvancedSearch(ctx, *userID, criteria)
	} else {
		response, err = engine.GlobalSearch(ctx, *userID, queryStr, scope, *limit, *offset)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, outFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	userID := fs.Int64("user", 1, "user id")
	limit := fs.Int("limit", 20, "entries to show")
	_ = fs.Parse(os.Args[2:])

	engine, store, ok := openEngine(*configPath)
	if !ok {
		os.Exit(1)
	}
	defer store.Close()

	entries, err := engine.GetHistory(context.Background(), *userID, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "History lookup failed: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No search history.")
		return
	}
	cli.WriteHistory(os.Stdout, entries)
}

func runCleanup() {
	fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	userID := fs.Int64("user", 1, "user id")
	days := fs.Int("days", 0, "retention window in days (0 = config default)")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	retention := *days
	if retention <= 0 {
		retention = cfg.History.RetentionDays
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	engine := search.NewEngine(store, nil)
	removed, err := engine.CleanupHistory(context.Background(), *userID, retention)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cleanup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %d history entries older than %d days.\n", removed, retention)
}

// openEngine loads config and opens the store for direct (serverless) use.
func openEngine(configPath string) (*search.Engine, *storage.SQLiteStore, bool) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return nil, nil, false
	}
	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		return nil, nil, false
	}
	return search.NewEngine(store, nil), store, true
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitIDs(s string) []int64 {
	var ids []int64
	for _, p := range splitList(s) {
		var id int64
		if _, err := fmt.Sscanf(p, "%d", &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func printUsage() {
	fmt.Println(`worklog-search - search across tasks, projects, categories, and tags

Usage:
  worklog-search <command> [flags]

Commands:
  server    Start the HTTP API server
  search    Search from the command line (global, or advanced with filters)
  history   Show recent searches
  cleanup   Purge old search history
  version   Print version
  help      Show this help

Run 'worklog-search <command> -h' for command flags.`)
}
