package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"

	"github.com/crease-analytics/rinkline/internal/app"
	"github.com/crease-analytics/rinkline/internal/config"
	"github.com/crease-analytics/rinkline/internal/platform/logging"
)

// scrape reconciles one or more games and writes the merged timelines as
// NDJSON, one row per line. Meant for backfills and ad-hoc pulls without
// standing up the HTTP server.
func main() {
	var (
		gamesFlag = flag.String("games", "", "comma-separated game ids (e.g. 2023020001,2023020002)")
		outFlag   = flag.String("out", "-", "output file path, or - for stdout")
	)
	flag.Parse()

	gameIDs, err := parseGameIDs(*gamesFlag, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	out := os.Stdout
	if *outFlag != "" && *outFlag != "-" {
		f, err := os.Create(*outFlag)
		if err != nil {
			logger.Error("open output file", "path", *outFlag, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	batch, _ := app.NewBatchPipeline(cfg, logger)
	result, err := batch.ReconcileGames(ctx, gameIDs)
	if err != nil {
		logger.Error("batch reconcile", "error", err)
		os.Exit(1)
	}

	writer := bufio.NewWriter(out)
	encoder := sonic.ConfigDefault.NewEncoder(writer)
	rows := 0
	for _, res := range result.Results {
		if res.Err != nil || res.Timeline == nil {
			continue
		}
		for i := range res.Timeline.Rows {
			if err := encoder.Encode(res.Timeline.Rows[i]); err != nil {
				logger.Error("encode row", "gameId", res.GameID, "error", err)
				os.Exit(1)
			}
			rows++
		}
	}
	if err := writer.Flush(); err != nil {
		logger.Error("flush output", "error", err)
		os.Exit(1)
	}

	logger.Info("scrape finished",
		"games", len(gameIDs),
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"rows", rows,
	)
	if result.Failed > 0 {
		os.Exit(1)
	}
}

func parseGameIDs(flagValue string, args []string) ([]int64, error) {
	raw := make([]string, 0, len(args)+4)
	for _, part := range strings.Split(flagValue, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			raw = append(raw, trimmed)
		}
	}
	for _, arg := range args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			raw = append(raw, trimmed)
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one game id is required")
	}

	ids := make([]int64, 0, len(raw))
	for _, value := range raw {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid game id %q", value)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
