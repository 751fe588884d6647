package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/weather-diary/internal/archive"
	"github.com/i474232898/weather-diary/internal/config"
	"github.com/i474232898/weather-diary/internal/metrics"
	"github.com/i474232898/weather-diary/internal/prompt"
	"github.com/i474232898/weather-diary/internal/store"
	"github.com/i474232898/weather-diary/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zcfg.Build()
}

// run executes one scrape. User-facing status goes to stdout; diagnostics go
// to the logger.
func run(ctx context.Context, cfg *config.AppConfig, args []string, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	fs := flag.NewFlagSet("weather-diary", flag.ContinueOnError)
	fs.SetOutput(stdout)
	from := fs.String("from", "", "first month, MM.YYYY (prompted when empty)")
	to := fs.String("to", "", "last month, MM.YYYY (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	fmt.Fprintf(stdout, "Weather diary collector for %s\n", cfg.CityName)

	p := prompt.New(stdin, stdout)
	start, err := monthArg(*from, "Enter start month", p)
	if err != nil {
		return err
	}
	end, err := monthArg(*to, "Enter end month", p)
	if err != nil {
		return err
	}

	dr := weather.NewDateRange(start, end)
	if err := dr.Validate(); err != nil {
		if errors.Is(err, weather.ErrInvalidRange) {
			fmt.Fprintln(stdout, "Error: the start month cannot be after the end month.")
		}
		return err
	}

	fmt.Fprintf(stdout, "Collecting weather for %s from %s to %s...\n", cfg.CityName, start, end)

	client := archive.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, archive.Options{
		BaseURL:         cfg.BaseURL,
		CityID:          cfg.CityID,
		UserAgent:       cfg.UserAgent,
		Retries:         cfg.FetchRetries,
		BreakerFailures: uint32(cfg.BreakerFailures),
	})
	collector := metrics.NewCollector("weather_diary")

	walker := weather.NewWalker(client, logger,
		weather.WithWorkers(cfg.Workers),
		weather.WithObservers(&progress{out: stdout}, collector),
	)

	res, err := walker.Walk(ctx, dr)
	if err != nil {
		return fmt.Errorf("walk %s-%s: %w", start, end, err)
	}

	summary := weather.Summarize(res)
	collector.ObserveSummary(summary)
	logSummary(logger, summary)

	if summary.Empty() {
		fmt.Fprintln(stdout, "Failed to obtain any weather data.")
	} else {
		writers, closeAll, err := outputWriters(cfg, runID)
		if err != nil {
			return err
		}
		defer closeAll()

		name := store.FileName(cfg.CityName, dr)
		for _, w := range writers {
			path, err := w.Write(ctx, res.Records, name)
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(stdout, "Data saved to %s\n", path)
		}
	}

	if cfg.MetricsTextfile != "" {
		if err := collector.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("failed to write metrics textfile",
				zap.String("path", cfg.MetricsTextfile), zap.Error(err))
		}
	}
	return nil
}

func monthArg(flagValue, label string, p *prompt.Prompter) (weather.MonthQuery, error) {
	if flagValue != "" {
		return weather.ParseMonth(flagValue)
	}
	return p.Month(label)
}

func outputWriters(cfg *config.AppConfig, runID string) ([]store.Writer, func(), error) {
	var (
		writers []store.Writer
		closers []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, f := range cfg.OutputFormats {
		switch f {
		case "csv":
			writers = append(writers, store.NewCSVWriter(cfg.OutputDir))
		case "xlsx":
			writers = append(writers, store.NewXLSXWriter(cfg.OutputDir))
		case "sqlite":
			db, err := store.OpenSQLite(cfg.OutputDir, cfg.SQLiteFile, runID)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			writers = append(writers, db)
			closers = append(closers, db.Close)
		default:
			closeAll()
			return nil, nil, fmt.Errorf("unknown output format %q", f)
		}
	}
	return writers, closeAll, nil
}

func logSummary(logger *zap.Logger, s weather.Summary) {
	failed := make([]string, 0, len(s.FailedMonths))
	for _, q := range s.FailedMonths {
		failed = append(failed, q.String())
	}
	fields := []zap.Field{
		zap.Int("months", s.MonthsRequested),
		zap.Int("months_failed", s.MonthsFailed),
		zap.Strings("failed", failed),
		zap.Int("records", s.Records),
		zap.Int("skipped_rows", s.SkippedRows),
	}
	for _, label := range weather.Cloudinesses() {
		fields = append(fields, zap.Int(metricKey(label), s.Cloudiness[label]))
	}
	logger.Info("walk complete", fields...)
}

func metricKey(c weather.Cloudiness) string {
	return "cloudiness_" + strings.ReplaceAll(strings.ToLower(string(c)), " ", "_")
}

// progress prints one status line per month.
type progress struct {
	mu  sync.Mutex
	out io.Writer
}

func (p *progress) MonthStarted(q weather.MonthQuery) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "Fetching data for %s\n", q)
}

func (p *progress) MonthFinished(o weather.MonthOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if o.Failed() {
		fmt.Fprintf(p.out, "No data for %s: %v\n", o.Query, o.Err)
		return
	}
	fmt.Fprintf(p.out, "Got %d days for %s\n", o.Records, o.Query)
}
