package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/muhammadchandra19/historical-data/internal/bootstrap"
	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/internal/infrastructure/export"
	"github.com/muhammadchandra19/historical-data/internal/usecase/pipeline"
	"github.com/muhammadchandra19/historical-data/internal/usecase/validator"
	"github.com/muhammadchandra19/historical-data/pkg/config"
	"github.com/muhammadchandra19/historical-data/pkg/interval"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/questdb"
)

type options struct {
	symbols    string
	start      string
	end        string
	frequency  string
	extended   bool
	maxRecords int
	format     string
	out        string
	demo       bool
	persist    bool
	quiet      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.symbols, "symbols", "", "Comma separated symbols, e.g. AAPL,MSFT")
	flag.StringVar(&opts.start, "start", "", "Start date (2006-01-02 or RFC3339)")
	flag.StringVar(&opts.end, "end", "", "End date (2006-01-02 or RFC3339)")
	flag.StringVar(&opts.frequency, "frequency", "1d", "Bar frequency: 1m,5m,15m,30m,1h,4h,1d,1w,1M")
	flag.BoolVar(&opts.extended, "extended", false, "Include extended hours")
	flag.IntVar(&opts.maxRecords, "max", 0, "Keep only the most recent N bars per symbol (0 = all)")
	flag.StringVar(&opts.format, "format", "json", "Export format: json or parquet")
	flag.StringVar(&opts.out, "out", "", "Export path; nothing is written when empty")
	flag.BoolVar(&opts.demo, "demo", false, "Serve generated bars when the upstream is unavailable")
	flag.BoolVar(&opts.persist, "persist", false, "Store fetched bars in QuestDB")
	flag.BoolVar(&opts.quiet, "quiet", false, "Disable logging")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	var saver export.Saver
	if opts.out != "" {
		if saver = export.NewSaver(opts.format); saver == nil {
			return fmt.Errorf("unsupported format %q", opts.format)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.demo {
		cfg.Fetcher.DemoMode = true
	}

	var appLogger logger.Interface = logger.NewNopLogger()
	if !opts.quiet {
		l, err := logger.NewLogger(
			logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)),
			logger.WithEncoding(logger.ConsoleEncoding),
			logger.WithOutputPaths([]string{"stderr"}),
		)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()
		appLogger = l
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrapConfig := bootstrap.BootstrapConfig{Config: cfg, Logger: appLogger}
	cfg.Pipeline.PersistBars = opts.persist
	if opts.persist {
		client, err := questdb.NewClient(ctx, cfg.QuestDB)
		if err != nil {
			return fmt.Errorf("failed to initialize QuestDB client: %w", err)
		}
		defer client.Close()
		bootstrapConfig.QuestDB = client
	}

	app := (&bootstrap.Bootstrap{}).Init(bootstrapConfig)
	defer app.Close()

	resp, err := app.Usecase.Pipeline.FetchHistorical(ctx, req)
	if err != nil {
		return err
	}
	printSummary(resp)

	if saver == nil {
		return nil
	}
	path := opts.out
	if !strings.HasSuffix(path, "."+saver.Extension()) {
		path += "." + saver.Extension()
	}
	if err := saver.Save(export.ToRecords(toSeries(resp)...), path); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	fmt.Printf("wrote %d bars to %s\n", resp.TotalBars, path)
	return nil
}

func buildRequest(opts options) (requestv1.DataRequest, error) {
	req := requestv1.DataRequest{
		Symbols:              strings.Split(opts.symbols, ","),
		Frequency:            opts.frequency,
		IncludeExtendedHours: opts.extended,
	}
	if strings.TrimSpace(opts.symbols) == "" {
		req.Symbols = nil
	}

	for _, d := range []struct {
		value string
		dst   **time.Time
	}{{opts.start, &req.StartDate}, {opts.end, &req.EndDate}} {
		if d.value == "" {
			continue
		}
		t, err := validator.ParseDate(d.value)
		if err != nil {
			return req, err
		}
		*d.dst = &t
	}

	if opts.maxRecords > 0 {
		limit := opts.maxRecords
		req.MaxRecords = &limit
	}
	return req, nil
}

func toSeries(resp *pipeline.HistoricalResponse) []export.Series {
	frequency := resp.Request.Frequency
	if name, ok := interval.Normalize(frequency); ok {
		frequency = name
	}
	series := make([]export.Series, 0, len(resp.Results))
	for _, r := range resp.Results {
		series = append(series, export.Series{
			Symbol:    r.Symbol,
			Frequency: frequency,
			Source:    r.Source,
			Bars:      r.Bars,
		})
	}
	return series
}

func printSummary(resp *pipeline.HistoricalResponse) {
	for _, w := range resp.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, r := range resp.Results {
		line := fmt.Sprintf("%-10s %-8s %-8s bars=%d gaps=%d", r.Symbol, r.Status, r.Source, len(r.Bars), len(r.Gaps))
		if r.Error != "" {
			line += " error=" + r.Error
		}
		fmt.Println(line)
	}
}
