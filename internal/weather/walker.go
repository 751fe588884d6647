package weather

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Walker fetches every month of a range and concatenates the records.
type Walker struct {
	source    MonthSource
	logger    *zap.Logger
	workers   int
	observers []Observer
}

// WalkerOption customizes a Walker.
type WalkerOption func(*Walker)

// WithWorkers sets how many months may be fetched at once. Values below one
// are treated as one (strictly sequential).
func WithWorkers(n int) WalkerOption {
	return func(w *Walker) {
		if n < 1 {
			n = 1
		}
		w.workers = n
	}
}

// WithObservers registers progress observers.
func WithObservers(obs ...Observer) WalkerOption {
	return func(w *Walker) {
		w.observers = append(w.observers, obs...)
	}
}

// NewWalker creates a Walker over the given source.
func NewWalker(source MonthSource, logger *zap.Logger, opts ...WalkerOption) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Walker{
		source:  source,
		logger:  logger,
		workers: 1,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk visits each month in r once, in chronological order. A month that
// fails contributes no records and the walk moves on; only an invalid range
// or a cancelled context stops it. On cancellation the months completed so
// far are returned together with ctx.Err().
func (w *Walker) Walk(ctx context.Context, r DateRange) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}

	months := r.Months()
	slots := make([]MonthOutcome, len(months))
	pages := make([][]WeatherRecord, len(months))
	done := make([]bool, len(months))

	w.logger.Debug("walking range",
		zap.Stringer("from", r.StartMonth()),
		zap.Stringer("to", r.EndMonth()),
		zap.Int("months", len(months)),
		zap.Int("workers", w.workers),
	)

	var (
		wg   sync.WaitGroup
		sem  = make(chan struct{}, w.workers)
		stop error
	)

	for i, q := range months {
		sem <- struct{}{}
		if err := ctx.Err(); err != nil {
			<-sem
			stop = err
			break
		}

		wg.Add(1)
		go func(i int, q MonthQuery) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome, records := w.fetchMonth(ctx, q)
			// Each goroutine owns its slot; no locking needed.
			slots[i] = outcome
			pages[i] = records
			done[i] = true
		}(i, q)
	}
	wg.Wait()

	res := Result{Range: r}
	for i := range months {
		if !done[i] {
			continue
		}
		res.Months = append(res.Months, slots[i])
		res.Records = append(res.Records, pages[i]...)
	}

	if stop != nil {
		return res, stop
	}
	return res, nil
}

func (w *Walker) fetchMonth(ctx context.Context, q MonthQuery) (MonthOutcome, []WeatherRecord) {
	for _, o := range w.observers {
		o.MonthStarted(q)
	}

	start := time.Now()
	page, err := w.source.FetchMonth(ctx, q)
	outcome := MonthOutcome{
		Query:       q,
		Records:     len(page.Records),
		SkippedRows: page.SkippedRows,
		Duration:    time.Since(start),
		Err:         err,
	}

	var records []WeatherRecord
	if err != nil {
		// Partial results beat aborting a multi-month run.
		outcome.Records = 0
		if errors.Is(err, context.Canceled) {
			w.logger.Info("month fetch cancelled", zap.Stringer("month", q))
		} else {
			w.logger.Warn("month fetch failed", zap.Stringer("month", q), zap.Error(err))
		}
	} else {
		records = page.Records
		w.logger.Debug("month fetched",
			zap.Stringer("month", q),
			zap.Int("records", outcome.Records),
			zap.Int("skipped_rows", outcome.SkippedRows),
			zap.Duration("took", outcome.Duration),
		)
	}

	for _, o := range w.observers {
		o.MonthFinished(outcome)
	}
	return outcome, records
}
