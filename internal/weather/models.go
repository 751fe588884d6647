package weather

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Cloudiness is the normalized sky condition read from a diary icon.
type Cloudiness string

const (
	CloudinessClear          Cloudiness = "Clear"
	CloudinessSlightlyCloudy Cloudiness = "Slightly cloudy"
	CloudinessVariable       Cloudiness = "Variable cloudiness"
	CloudinessOvercast       Cloudiness = "Overcast"
	CloudinessUnknown        Cloudiness = "Unknown"
	CloudinessNoData         Cloudiness = "No data"
)

// WeatherRecord is one calendar day of the diary: a daytime and an evening
// observation. Temperature, pressure and wind are kept exactly as the archive
// renders them.
type WeatherRecord struct {
	Date time.Time `json:"date"` // always UTC midnight

	TempDay       string     `json:"tempDay"`
	PressureDay   string     `json:"pressureDay"`
	CloudinessDay Cloudiness `json:"cloudinessDay"`
	WindDay       string     `json:"windDay"`

	TempEvening       string     `json:"tempEvening"`
	PressureEvening   string     `json:"pressureEvening"`
	CloudinessEvening Cloudiness `json:"cloudinessEvening"`
	WindEvening       string     `json:"windEvening"`
}

// MonthQuery identifies one archive page.
type MonthQuery struct {
	Year  int
	Month time.Month
}

const monthLayout = "01.2006"

// ParseMonth parses user input in MM.YYYY form. A one-digit month (1.2023)
// is accepted too.
func ParseMonth(s string) (MonthQuery, error) {
	in := s
	if strings.IndexByte(s, '.') == 1 {
		s = "0" + s
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return MonthQuery{}, fmt.Errorf("invalid month %q, expected MM.YYYY: %w", in, err)
	}
	return MonthQuery{Year: t.Year(), Month: t.Month()}, nil
}

// First returns the first day of the month at UTC midnight.
func (q MonthQuery) First() time.Time {
	return time.Date(q.Year, q.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar month.
func (q MonthQuery) Next() MonthQuery {
	t := time.Date(q.Year, q.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return MonthQuery{Year: t.Year(), Month: t.Month()}
}

// Day returns the date of the given day in this month, or false when the
// day does not exist in it.
func (q MonthQuery) Day(day int) (time.Time, bool) {
	if day < 1 {
		return time.Time{}, false
	}
	t := time.Date(q.Year, q.Month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != q.Month || t.Year() != q.Year {
		return time.Time{}, false
	}
	return t, true
}

func (q MonthQuery) String() string {
	return q.First().Format(monthLayout)
}

// Compact renders the month as YYYYMM, the form used in output file names.
func (q MonthQuery) Compact() string {
	return q.First().Format("200601")
}

// ErrInvalidRange is returned when a range starts after it ends.
var ErrInvalidRange = errors.New("start month is after end month")

var validate = validator.New()

// DateRange is an inclusive range of months.
type DateRange struct {
	Start time.Time `validate:"required"`
	End   time.Time `validate:"required,gtefield=Start"`
}

// NewDateRange builds a range between two months. It does not validate.
func NewDateRange(start, end MonthQuery) DateRange {
	return DateRange{Start: start.First(), End: end.First()}
}

// Validate checks that both ends are set and Start <= End.
func (r DateRange) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "gtefield" {
					return fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.StartMonth(), r.EndMonth())
				}
			}
		}
		return fmt.Errorf("invalid date range: %w", err)
	}
	return nil
}

func (r DateRange) StartMonth() MonthQuery {
	return MonthQuery{Year: r.Start.Year(), Month: r.Start.Month()}
}

func (r DateRange) EndMonth() MonthQuery {
	return MonthQuery{Year: r.End.Year(), Month: r.End.Month()}
}

// Months lists every month of the range in chronological order. The cursor
// is reset to the first of each month so month lengths never skew the step.
func (r DateRange) Months() []MonthQuery {
	var months []MonthQuery
	end := r.EndMonth().First()
	for q := r.StartMonth(); !q.First().After(end); q = q.Next() {
		months = append(months, q)
	}
	return months
}

// MonthPage is what the extractor produced for one archive page.
type MonthPage struct {
	Query       MonthQuery
	Records     []WeatherRecord
	SkippedRows int
}

// MonthOutcome describes how fetching one month went.
type MonthOutcome struct {
	Query       MonthQuery
	Records     int
	SkippedRows int
	Duration    time.Duration
	Err         error
}

// Failed reports whether the month contributed nothing because of an error.
func (o MonthOutcome) Failed() bool {
	return o.Err != nil
}

// Result is the aggregated output of a range walk.
type Result struct {
	Range   DateRange
	Months  []MonthOutcome
	Records []WeatherRecord
}
