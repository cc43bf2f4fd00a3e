package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/legalfeed"
	"github.com/fwojciec/legalfeed/crawl"
	"github.com/fwojciec/legalfeed/fs"
	"github.com/fwojciec/legalfeed/gaceta"
	"github.com/fwojciec/legalfeed/goquery"
	lfhttp "github.com/fwojciec/legalfeed/http"
	"github.com/fwojciec/legalfeed/readability"
	"github.com/fwojciec/legalfeed/redis"
	"github.com/fwojciec/legalfeed/robots"
	"github.com/fwojciec/legalfeed/rod"
	lfslog "github.com/fwojciec/legalfeed/slog"
	"github.com/fwojciec/legalfeed/sqlite"
	"github.com/fwojciec/legalfeed/trafilatura"
	"github.com/fwojciec/legalfeed/tsj"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Default locations, overridable by flags and LEGALFEED_* variables.
	CacheDir string
	DBPath   string

	// SQLite database backing the archive. Opened only when needed.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	dir := defaultDir()
	return &Main{
		CacheDir: filepath.Join(dir, "cache"),
		DBPath:   filepath.Join(dir, "legalfeed.db"),
	}
}

// Close releases the database and any transport started by Run.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("legalfeed"),
		kong.Description("Search the Gaceta Oficial and TSJ decisions."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(kong.JSON),
		kong.Vars{
			"cache_dir":  m.CacheDir,
			"db_path":    m.DBPath,
			"gaceta_url": gaceta.DefaultBaseURL,
			"tsj_url":    tsj.DefaultBaseURL,
		},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'legalfeed --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	command := kongCtx.Command()
	if cli.Archive || strings.HasPrefix(command, "history") {
		m.DB = sqlite.NewDB(cli.DB)
		if err := os.MkdirAll(filepath.Dir(cli.DB), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set LEGALFEED_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		m.closers = append(m.closers, m.DB)
		deps.Archive = sqlite.NewArchive(m.DB)
	}

	if needsSources(command) {
		if err := m.wireSources(ctx, cli, deps, logger); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// needsSources reports whether command talks to the connectors.
func needsSources(command string) bool {
	return !strings.HasPrefix(command, "history")
}

// wireSources builds the fetch pipeline and both connectors:
// transport -> robots -> logging -> cache/limiter/retries -> logging.
func (m *Main) wireSources(ctx context.Context, cli *CLI, deps *Dependencies, logger *slog.Logger) error {
	var transport legalfeed.Transport
	switch cli.Transport {
	case "browser":
		t, err := rod.NewTransport(rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		transport = t
	default:
		transport = lfhttp.NewTransport(lfhttp.WithTimeout(cli.Timeout))
	}
	m.closers = append(m.closers, transport)

	gacetaCfg := cli.sourceConfig(legalfeed.SourceGaceta)
	tsjCfg := cli.sourceConfig(legalfeed.SourceTSJ)

	limiter, err := m.limiter(ctx, cli, deps.Stderr, gacetaCfg, tsjCfg)
	if err != nil {
		return err
	}

	if cli.Robots {
		transport = robots.NewTransport(transport, lfhttp.DefaultUserAgent, robots.WithLimiter(limiter))
	}
	transport = lfslog.NewLoggingTransport(transport, logger)

	cache := fs.NewCacheStore(cli.CacheDir)
	var fetcher legalfeed.Fetcher = crawl.NewFetcher(transport, cache, limiter,
		crawl.WithSourceConfig(legalfeed.SourceGaceta, gacetaCfg),
		crawl.WithSourceConfig(legalfeed.SourceTSJ, tsjCfg),
	)
	fetcher = lfslog.NewLoggingFetcher(fetcher, logger)

	norms, err := gaceta.NewService(fetcher, cache,
		gaceta.WithBaseURL(cli.GacetaURL),
		gaceta.WithConfig(gacetaCfg),
	)
	if err != nil {
		return fmt.Errorf("failed to create gaceta connector: %w", err)
	}
	decisions, err := tsj.NewService(fetcher, cache,
		tsj.WithBaseURL(cli.TSJURL),
		tsj.WithConfig(tsjCfg),
		tsj.WithBodyExtractor(bodyExtractor(cli.BodyExtractor)),
	)
	if err != nil {
		return fmt.Errorf("failed to create tsj connector: %w", err)
	}

	deps.Norms = norms
	deps.Decisions = decisions
	return nil
}

// limiter returns a Redis-backed limiter when an address is configured,
// otherwise an in-process one. Both enforce the MinInterval of each source.
func (m *Main) limiter(ctx context.Context, cli *CLI, stderr io.Writer, gacetaCfg, tsjCfg legalfeed.SourceConfig) (legalfeed.SourceLimiter, error) {
	if cli.RedisAddr == "" {
		return crawl.NewSourceLimiter(legalfeed.DefaultMinInterval,
			crawl.WithInterval(legalfeed.SourceGaceta, gacetaCfg.MinInterval),
			crawl.WithInterval(legalfeed.SourceTSJ, tsjCfg.MinInterval),
		), nil
	}
	client, err := redis.NewClient(ctx, cli.RedisAddr, cli.RedisPassword, cli.RedisDB)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: unset LEGALFEED_REDIS_ADDR to use the in-process limiter")
		return nil, fmt.Errorf("failed to connect to redis at %q: %w", cli.RedisAddr, err)
	}
	m.closers = append(m.closers, client)
	return redis.NewSourceLimiter(client, legalfeed.DefaultMinInterval,
		redis.WithInterval(legalfeed.SourceGaceta, gacetaCfg.MinInterval),
		redis.WithInterval(legalfeed.SourceTSJ, tsjCfg.MinInterval),
	), nil
}

func bodyExtractor(name string) legalfeed.Extractor {
	switch name {
	case "trafilatura":
		return trafilatura.NewExtractor()
	case "readability":
		return readability.NewExtractor()
	default:
		return goquery.NewBodyExtractor()
	}
}

func defaultDir() string {
	if dir := os.Getenv("LEGALFEED_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".legalfeed"
	}
	return filepath.Join(home, ".legalfeed")
}
