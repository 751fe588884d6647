package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/weather-diary/internal/weather"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_records (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id             TEXT NOT NULL,
	source             TEXT NOT NULL,
	date               TEXT NOT NULL,
	temp_day           TEXT NOT NULL,
	pressure_day       TEXT NOT NULL,
	cloudiness_day     TEXT NOT NULL,
	wind_day           TEXT NOT NULL,
	temp_evening       TEXT NOT NULL,
	pressure_evening   TEXT NOT NULL,
	cloudiness_evening TEXT NOT NULL,
	wind_evening       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_weather_records_run ON weather_records(run_id);
CREATE INDEX IF NOT EXISTS idx_weather_records_date ON weather_records(date);
`

// DBRecord is one stored row.
type DBRecord struct {
	ID                int64  `db:"id"`
	RunID             string `db:"run_id"`
	Source            string `db:"source"`
	Date              string `db:"date"`
	TempDay           string `db:"temp_day"`
	PressureDay       string `db:"pressure_day"`
	CloudinessDay     string `db:"cloudiness_day"`
	WindDay           string `db:"wind_day"`
	TempEvening       string `db:"temp_evening"`
	PressureEvening   string `db:"pressure_evening"`
	CloudinessEvening string `db:"cloudiness_evening"`
	WindEvening       string `db:"wind_evening"`
}

// SQLiteStore appends every run's records to a SQLite database. Rows are
// tagged with the run id; earlier runs are never rewritten.
type SQLiteStore struct {
	db    *sqlx.DB
	path  string
	runID string
}

// OpenSQLite opens (and creates if needed) the database in dir.
func OpenSQLite(dir, file, runID string) (*SQLiteStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, file)

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return &SQLiteStore{db: db, path: path, runID: runID}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Write inserts the records in one transaction. name identifies the
// requested range and is stored as the row source.
func (s *SQLiteStore) Write(ctx context.Context, records []weather.WeatherRecord, name string) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	const insert = `
INSERT INTO weather_records (
	run_id, source, date,
	temp_day, pressure_day, cloudiness_day, wind_day,
	temp_evening, pressure_evening, cloudiness_evening, wind_evening
) VALUES (
	:run_id, :source, :date,
	:temp_day, :pressure_day, :cloudiness_day, :wind_day,
	:temp_evening, :pressure_evening, :cloudiness_evening, :wind_evening
)`

	stmt, err := tx.PrepareNamedContext(ctx, insert)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		f := row(r)
		rec := DBRecord{
			RunID:             s.runID,
			Source:            name,
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
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			return "", fmt.Errorf("insert %s: %w", rec.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return s.path, nil
}

// Records returns the rows of one run in insertion order.
func (s *SQLiteStore) Records(ctx context.Context, runID string) ([]DBRecord, error) {
	var out []DBRecord
	err := s.db.SelectContext(ctx, &out,
		`SELECT * FROM weather_records WHERE run_id = ? ORDER BY id`, runID)
	return out, err
}
