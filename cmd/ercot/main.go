// Command ercot runs the ERCOT market-data pipeline: historical backfills,
// incremental updates, and the FINAL merge.
//
// Usage:
//
//	ercot [flags] <command>
//
// Commands:
//
//	historical-dam      ingest DAM bids, offers and awards for -from/-to
//	historical-spp      ingest settlement point prices for -from/-to
//	update-dam          ingest DAM reports newer than the stored cursor
//	update-spp          ingest prices newer than the stored cursor
//	merge               rebuild the FINAL table for -from/-to
//	download-and-merge  historical-dam + historical-spp + merge
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gridfin/ercot-data/internal/api"
	"github.com/gridfin/ercot-data/internal/config"
	"github.com/gridfin/ercot-data/internal/ingest"
	"github.com/gridfin/ercot-data/internal/model"
	"github.com/gridfin/ercot-data/internal/qsefilter"
	"github.com/gridfin/ercot-data/internal/store"
	"github.com/gridfin/ercot-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/ercot.yaml", "path to config file")
	envFile := flag.String("env", "", "optional .env file loaded before the config")
	from := flag.String("from", "", "range start, YYYY-MM-DD")
	to := flag.String("to", "", "range end, YYYY-MM-DD")
	dbPath := flag.String("db", "", "override database path from config")
	qseFile := flag.String("qse-file", "", "override QSE tracking list from config")
	filterSPP := flag.Bool("filter-spp", false, "only ingest prices for settlement points present in award tables")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	command := flag.Arg(0)
	if command == "" {
		fmt.Fprintln(os.Stderr, "usage: ercot [flags] <command>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := loadEnv(*envFile); err != nil {
		logger.Error("failed to load env file", "path", *envFile, "error", err)
		os.Exit(1)
	}

	logger.Info("starting ercot pipeline",
		"version", version.Version,
		"commit", version.Commit,
		"command", command,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *qseFile != "" {
		cfg.QSE.TrackingFile = *qseFile
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, command, cfg, *from, *to, *filterSPP, logger); err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}

	logger.Info("done", "command", command)
}

// loadEnv loads a .env file. An explicit path must exist; the implicit
// working-directory .env is optional.
func loadEnv(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return nil
}

func run(ctx context.Context, command string, cfg *config.Config, from, to string, filterSPP bool, logger *slog.Logger) error {
	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if command == "merge" {
		start, end, err := parseRange(from, to)
		if err != nil {
			return err
		}
		n, err := st.Merge(ctx, start, end)
		if err != nil {
			return err
		}
		logger.Info("merge complete", "rows", n)
		return nil
	}

	qse, err := qsefilter.Load(cfg.QSE.TrackingFile)
	if err != nil {
		return err
	}
	if qse.Len() > 0 {
		logger.Info("qse filter active", "qses", qse.Len())
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.SubscriptionKey,
		api.WithTokenURL(cfg.API.TokenURL),
		api.WithCredentials(cfg.API.Username, cfg.API.Password),
		api.WithRateLimit(cfg.API.RateRequests, cfg.API.RateInterval),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		api.WithPageSize(cfg.API.PageSize),
		api.WithLogger(logger),
	)
	if err := client.Authenticate(ctx); err != nil {
		return err
	}

	pipeline := ingest.New(client, st, ingest.Options{
		MaxWindowDays: cfg.Batch.MaxWindowDays,
		DAMLagDays:    cfg.Update.DAMLagDays,
		SPPLagDays:    cfg.Update.SPPLagDays,
		BackfillDays:  cfg.Update.BackfillDays,
		QSE:           qse,
		FilterSPP:     filterSPP,
		Logger:        logger,
	})

	switch command {
	case "historical-dam":
		start, end, err := parseRange(from, to)
		if err != nil {
			return err
		}
		return report(pipeline.RunDAM(ctx, start, end))

	case "historical-spp":
		start, end, err := parseRange(from, to)
		if err != nil {
			return err
		}
		return report(pipeline.RunSPP(ctx, start, end))

	case "update-dam":
		return report(pipeline.UpdateDAM(ctx))

	case "update-spp":
		return report(pipeline.UpdateSPP(ctx))

	case "download-and-merge":
		start, end, err := parseRange(from, to)
		if err != nil {
			return err
		}
		if err := report(pipeline.RunDAM(ctx, start, end)); err != nil {
			return err
		}
		if err := report(pipeline.RunSPP(ctx, start, end)); err != nil {
			return err
		}
		n, err := st.Merge(ctx, start, end)
		if err != nil {
			return err
		}
		logger.Info("merge complete", "rows", n)
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// report collapses a pipeline summary into the command's exit decision:
// any failed window fails the command.
func report(sum *ingest.Summary, err error) error {
	if err != nil {
		return err
	}
	return sum.Err()
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("-from and -to are required (YYYY-MM-DD)")
	}
	start, err := time.Parse(model.DateFormat, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse -from: %w", err)
	}
	end, err := time.Parse(model.DateFormat, to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse -to: %w", err)
	}
	return start, end, nil
}
