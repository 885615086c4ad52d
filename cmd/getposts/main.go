// Command getposts searches recent posts for each query, scores them and
// writes a dated CSV file.
//
// Credentials and pacing come from the environment (or a .env file):
// X_BEARER_TOKEN, X_API_BASE_URL, LOG_LEVEL, LOG_FORMAT,
// REQUESTS_PER_WINDOW, RATE_WINDOW, MAX_RESULTS and CURSOR_DB.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/cognicore/postsent/internal/collect"
	"github.com/cognicore/postsent/internal/cursor/sqlite"
	"github.com/cognicore/postsent/internal/envconfig"
	"github.com/cognicore/postsent/internal/export"
	"github.com/cognicore/postsent/internal/logging"
	"github.com/cognicore/postsent/internal/xapi"
	"github.com/cognicore/postsent/pkg/postsent/config"
	"github.com/cognicore/postsent/pkg/postsent/internalerr"
)

// defaultQueries are searched when no --query is given.
var defaultQueries = []string{"Fred VanVleet", "Scottie Barnes", "O.G. Anunoby", "Gary Trent Jr."}

// queryList collects repeated --query flags.
type queryList []string

func (q *queryList) String() string { return strings.Join(*q, ", ") }

func (q *queryList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("empty query")
	}
	*q = append(*q, v)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr, time.Now); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "getposts:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("getposts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var queries queryList
	fs.Var(&queries, "query", "Search query (repeatable)")
	var (
		outDir       = fs.String("out", ".", "Output directory for the CSV file")
		envFile      = fs.String("env", ".env", "Optional .env file")
		pages        = fs.Int("pages", 1, "Search pages per query")
		stoplistPath = fs.String("stoplist", "", "Stoplist YAML file (optional)")
		lexiconPath  = fs.String("lexicon", "", "Lexicon overrides YAML file (optional)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(queries) == 0 {
		queries = defaultQueries
	}

	cfg, dotenv, err := envconfig.Load(*envFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "dotenv", dotenv, "base_url", cfg.APIBaseURL)

	components, err := (&config.Loader{StoplistPath: *stoplistPath, LexiconPath: *lexiconPath}).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := sqlite.OpenSQLite(ctx, cfg.CursorDB)
	if err != nil {
		return err
	}
	defer store.Close()

	client := xapi.New(xapi.Config{
		BaseURL:           cfg.APIBaseURL,
		BearerToken:       cfg.BearerToken,
		RequestsPerWindow: cfg.RequestsPerWindow,
		Window:            cfg.RateWindow,
		Logger:            logger,
	})

	collector := collect.New(collect.Options{
		API:        client,
		Analyzer:   components.Analyzer,
		Store:      store,
		Logger:     logger,
		MaxResults: cfg.MaxResults,
		Pages:      *pages,
		Now:        now,
	})

	records, collectErr := collector.Collect(ctx, queries)
	if collectErr != nil && !errors.Is(collectErr, internalerr.ErrRateLimited) {
		return collectErr
	}

	path, err := writeFile(*outDir, now(), records)
	if err != nil {
		return err
	}
	logger.Info("wrote posts", "path", path, "posts", len(records))

	if collectErr != nil {
		logger.Warn("collection stopped early, output is partial", "err", collectErr)
	}
	return nil
}

func writeFile(dir string, t time.Time, records []collect.Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, export.FileName(t))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	if err := export.WriteCSV(f, records); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close output file: %w", err)
	}
	return path, nil
}
