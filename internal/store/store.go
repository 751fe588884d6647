package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/i474232898/weather-diary/internal/weather"
)

// Writer persists a walk's records. name is the base file name without
// extension; the returned string says where the data went.
type Writer interface {
	Write(ctx context.Context, records []weather.WeatherRecord, name string) (string, error)
}

// Header is the fixed column order shared by every tabular output.
var Header = []string{
	"Date",
	"Day Temp",
	"Day Pressure",
	"Day Cloudiness",
	"Day Wind",
	"Evening Temp",
	"Evening Pressure",
	"Evening Cloudiness",
	"Evening Wind",
}

const dateLayout = "2006-01-02"

// row flattens a record into Header order.
func row(r weather.WeatherRecord) []string {
	return []string{
		r.Date.Format(dateLayout),
		r.TempDay,
		r.PressureDay,
		string(r.CloudinessDay),
		r.WindDay,
		r.TempEvening,
		r.PressureEvening,
		string(r.CloudinessEvening),
		r.WindEvening,
	}
}

// FileName builds "<city>_weather_<YYYYMM>-<YYYYMM>" for a range.
func FileName(city string, r weather.DateRange) string {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		city = "city"
	}
	return fmt.Sprintf("%s_weather_%s-%s", city, r.StartMonth().Compact(), r.EndMonth().Compact())
}

// ensureDir creates dir if needed. An existing directory is fine.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}
