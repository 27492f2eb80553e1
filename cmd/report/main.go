// Command report prints the sales insights report for a CSV source.
//
//	go run ./cmd/report -file=data/sales_data.csv -top=10
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sales-insights/internal/config"
	"sales-insights/internal/loader"
	"sales-insights/internal/observability"
	"sales-insights/internal/report"
	"sales-insights/internal/services"
)

func main() {
	var (
		file    = flag.String("file", "data/sales_data.csv", "sales CSV source")
		top     = flag.Int("top", 10, "rows in top-N rankings")
		fixture = flag.Bool("fixture", true, "create the sample dataset when the source is missing")
		out     = flag.String("out", "", "write the report to a file instead of stdout")
	)
	flag.Parse()

	logger := observability.NewLogger(config.LoggerConfig{Level: "warn", Format: "text"})
	slog.SetDefault(logger)

	load := loader.Load
	if *fixture {
		load = loader.LoadOrFixture
	}
	store := services.NewStore(load, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ds, err := store.Dataset(ctx, *file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load sales data: %v\n", err)
		os.Exit(1)
	}

	text := report.Build(ds, *top)

	if *out == "" {
		fmt.Print(text)
		return
	}
	if err := os.WriteFile(*out, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("report written to %s\n", *out)
}
