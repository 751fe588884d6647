package archive

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/i474232898/weather-diary/internal/common"
	"github.com/i474232898/weather-diary/internal/weather"
)

// ErrTableNotFound means the page has no diary table. The month simply has
// no data; callers log it and move on.
var ErrTableNotFound = errors.New("diary table not found")

const (
	// diaryTableSelector matches the one data table on a diary page.
	diaryTableSelector = `table[align="center"][valign="top"][border="0"]`
	headerRows         = 2
	minCells           = 11
	iconSelector       = "img.screen_icon"
)

// Extract decodes one month's diary page. Rows with fewer than eleven cells
// or an invalid day number are skipped and counted. A page without the diary
// table yields an empty page and ErrTableNotFound.
func Extract(r io.Reader, q weather.MonthQuery) (weather.MonthPage, error) {
	page := weather.MonthPage{Query: q}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return page, fmt.Errorf("parse diary page %s: %w", q, err)
	}

	table := doc.Find(diaryTableSelector).First()
	if table.Length() == 0 {
		return page, fmt.Errorf("%s: %w", q, ErrTableNotFound)
	}

	rows := table.Find("tr")
	if rows.Length() <= headerRows {
		return page, nil
	}

	rows.Slice(headerRows, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		rec, ok := decodeRow(row.Find("td"), q)
		if !ok {
			page.SkippedRows++
			return
		}
		page.Records = append(page.Records, rec)
	})

	return page, nil
}

// decodeRow holds all knowledge of the diary's column layout. Columns 4 and
// 9 are presentational and ignored.
func decodeRow(cells *goquery.Selection, q weather.MonthQuery) (weather.WeatherRecord, bool) {
	if cells.Length() < minCells {
		return weather.WeatherRecord{}, false
	}
	cell := func(i int) *goquery.Selection { return cells.Eq(i) }

	day, err := strconv.Atoi(cellText(cell(0)))
	if err != nil {
		return weather.WeatherRecord{}, false
	}
	date, ok := q.Day(day)
	if !ok {
		return weather.WeatherRecord{}, false
	}

	return weather.WeatherRecord{
		Date:              date,
		TempDay:           cellText(cell(1)),
		PressureDay:       cellText(cell(2)),
		CloudinessDay:     cellCloudiness(cell(3)),
		WindDay:           cellLastLine(cell(5)),
		TempEvening:       cellText(cell(6)),
		PressureEvening:   cellText(cell(7)),
		CloudinessEvening: cellCloudiness(cell(8)),
		WindEvening:       cellLastLine(cell(10)),
	}, true
}

func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// cellLastLine keeps only the last visual line of a cell; <br> counts as a
// line break as well as a literal newline.
func cellLastLine(s *goquery.Selection) string {
	c := s.Clone()
	c.Find("br").ReplaceWithHtml("\n")
	return common.LastLine(c.Text())
}

func cellCloudiness(s *goquery.Selection) weather.Cloudiness {
	src, present := s.Find(iconSelector).First().Attr("src")
	return weather.ResolveCloudiness(common.FileName(src), present)
}
