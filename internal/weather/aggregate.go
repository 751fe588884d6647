package weather

// Summary condenses a walk result for logging and auditing.
type Summary struct {
	MonthsRequested int
	MonthsFailed    int
	FailedMonths    []MonthQuery
	Records         int
	SkippedRows     int

	// Cloudiness counts day and evening observations per label.
	Cloudiness map[Cloudiness]int
}

// Summarize aggregates a Result. No data and Unknown are counted separately
// so missing icons and unrecognized icons can be told apart.
func Summarize(res Result) Summary {
	s := Summary{
		MonthsRequested: len(res.Months),
		Records:         len(res.Records),
		Cloudiness:      make(map[Cloudiness]int, len(Cloudinesses())),
	}

	for _, m := range res.Months {
		s.SkippedRows += m.SkippedRows
		if m.Failed() {
			s.MonthsFailed++
			s.FailedMonths = append(s.FailedMonths, m.Query)
		}
	}

	for _, r := range res.Records {
		s.Cloudiness[r.CloudinessDay]++
		s.Cloudiness[r.CloudinessEvening]++
	}

	return s
}

// Empty reports whether the walk produced no records at all.
func (s Summary) Empty() bool {
	return s.Records == 0
}
