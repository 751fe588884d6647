package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/i474232898/weather-diary/internal/weather"
)

// csvRow mirrors Header; the tags are the column titles.
type csvRow struct {
	Date              string `csv:"Date"`
	TempDay           string `csv:"Day Temp"`
	PressureDay       string `csv:"Day Pressure"`
	CloudinessDay     string `csv:"Day Cloudiness"`
	WindDay           string `csv:"Day Wind"`
	TempEvening       string `csv:"Evening Temp"`
	PressureEvening   string `csv:"Evening Pressure"`
	CloudinessEvening string `csv:"Evening Cloudiness"`
	WindEvening       string `csv:"Evening Wind"`
}

func toCSVRow(r weather.WeatherRecord) csvRow {
	f := row(r)
	return csvRow{
		Date:              f[0],
		TempDay:           f[1],
		PressureDay:       f[2],
		CloudinessDay:     f[3],
		WindDay:           f[4],
		TempEvening:       f[5],
		PressureEvening:   f[6],
		CloudinessEvening: f[7],
		WindEvening:       f[8],
	}
}

// CSVWriter writes UTF-8, comma-delimited files into Dir.
type CSVWriter struct {
	Dir string
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{Dir: dir}
}

// Write creates Dir if needed and writes the header plus one line per
// record, in input order.
func (w *CSVWriter) Write(_ context.Context, records []weather.WeatherRecord, name string) (string, error) {
	if err := ensureDir(w.Dir); err != nil {
		return "", err
	}

	path := filepath.Join(w.Dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	rows := make([]csvRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, toCSVRow(r))
	}

	if err := gocsv.Marshal(&rows, f); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
