package weather

import (
	"errors"
	"testing"
)

func TestSummarize(t *testing.T) {
	res := Result{
		Months: []MonthOutcome{
			{Query: jan, Records: 2, SkippedRows: 1},
			{Query: feb, Err: errors.New("boom")},
			{Query: mar, Records: 1, SkippedRows: 2},
		},
		Records: []WeatherRecord{
			{CloudinessDay: CloudinessClear, CloudinessEvening: CloudinessNoData},
			{CloudinessDay: CloudinessUnknown, CloudinessEvening: CloudinessNoData},
			{CloudinessDay: CloudinessClear, CloudinessEvening: CloudinessOvercast},
		},
	}

	s := Summarize(res)

	if s.MonthsRequested != 3 || s.MonthsFailed != 1 {
		t.Fatalf("months = %d/%d, want 3/1", s.MonthsRequested, s.MonthsFailed)
	}
	if len(s.FailedMonths) != 1 || s.FailedMonths[0] != feb {
		t.Errorf("FailedMonths = %v", s.FailedMonths)
	}
	if s.Records != 3 {
		t.Errorf("Records = %d, want 3", s.Records)
	}
	if s.SkippedRows != 3 {
		t.Errorf("SkippedRows = %d, want 3", s.SkippedRows)
	}

	want := map[Cloudiness]int{
		CloudinessClear:    2,
		CloudinessUnknown:  1,
		CloudinessNoData:   2,
		CloudinessOvercast: 1,
	}
	for label, n := range want {
		if s.Cloudiness[label] != n {
			t.Errorf("Cloudiness[%q] = %d, want %d", label, s.Cloudiness[label], n)
		}
	}
	if s.Empty() {
		t.Error("summary with records reported empty")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(Result{Months: []MonthOutcome{{Query: jan, Err: errors.New("down")}}})
	if !s.Empty() {
		t.Error("expected empty summary")
	}
}
