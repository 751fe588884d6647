package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/i474232898/weather-diary/internal/weather"
)

// SheetName is the worksheet holding the records.
const SheetName = "Weather"

// XLSXWriter writes a single-sheet workbook into Dir.
type XLSXWriter struct {
	Dir string
}

func NewXLSXWriter(dir string) *XLSXWriter {
	return &XLSXWriter{Dir: dir}
}

func (w *XLSXWriter) Write(_ context.Context, records []weather.WeatherRecord, name string) (string, error) {
	if err := ensureDir(w.Dir); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return "", err
	}

	if err := setRow(f, 1, Header); err != nil {
		return "", err
	}
	for i, r := range records {
		if err := setRow(f, i+2, row(r)); err != nil {
			return "", err
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return "", err
	}

	path := filepath.Join(w.Dir, name+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &vals)
}
