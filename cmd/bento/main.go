package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sebmonty/bento"
	"github.com/sebmonty/bento/clicks"
	"github.com/sebmonty/bento/cms"
	"github.com/sebmonty/bento/ctxlog"
	"github.com/sebmonty/bento/telemetry"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "slugs":
		err = runSlugs(os.Args[2:])
	case "clicks":
		err = runClicks(os.Args[2:])
	case "version":
		fmt.Printf("bento %s\n", version)
	case "help", "-h", "--help":
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

func printUsage() {
	fmt.Println(`bento - a link-in-bio site with a newsletter signup and a blog

Usage:
  bento <command> [arguments]

Commands:
  serve [-config file]              Run the web server
  slugs [-config file]              List published post slugs
  clicks [-config file] [-days n]   Print link click counts
  version                           Print the bento version
  help                              Show this help message

Configuration is read from the optional YAML file, then BENTO_* environment
variables (a .env file in the working directory is loaded first).`)
}

func loadConfig(name string, args []string, extra func(*flag.FlagSet)) (bento.SiteConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", os.Getenv("BENTO_CONFIG"), "path to YAML config file")
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return bento.SiteConfig{}, err
	}
	return bento.LoadConfig(*path)
}

func runServe(args []string) error {
	cfg, err := loadConfig("serve", args, nil)
	if err != nil {
		return err
	}

	logger := ctxlog.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: "bento",
		Environment: cfg.Environment,
	})
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	app := bento.New(cfg, bento.WithLogger(logger))
	defer app.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.Shutdown(sctx)
	}
}

func runSlugs(args []string) error {
	cfg, err := loadConfig("slugs", args, nil)
	if err != nil {
		return err
	}
	client := cms.New(cms.Config{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		Token:      cfg.SanityToken,
		Timeout:    cfg.UpstreamTimeout,
	})
	if !client.Configured() {
		return fmt.Errorf("content store is not configured (set BENTO_SANITY_PROJECT_ID)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
	defer cancel()
	slugs, err := client.ListSlugs(ctx)
	if err != nil {
		return err
	}
	for _, s := range slugs {
		fmt.Println(s)
	}
	return nil
}

func runClicks(args []string) error {
	var days int
	cfg, err := loadConfig("clicks", args, func(fs *flag.FlagSet) {
		fs.IntVar(&days, "days", 30, "count clicks from the last n days")
	})
	if err != nil {
		return err
	}

	store, err := clicks.NewStore(cfg.ClicksDatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	since := time.Now().UTC().AddDate(0, 0, -days)
	counts, err := store.Counts(context.Background(), since)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(counts)
}
