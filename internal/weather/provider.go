package weather

import (
	"context"
)

// MonthSource abstracts the archive: it returns the decoded page for a month
// or an error when the month could not be obtained.
type MonthSource interface {
	FetchMonth(ctx context.Context, q MonthQuery) (MonthPage, error)
}

// Observer is notified as the walker progresses. With more than one worker
// the callbacks may run concurrently.
type Observer interface {
	MonthStarted(q MonthQuery)
	MonthFinished(o MonthOutcome)
}
