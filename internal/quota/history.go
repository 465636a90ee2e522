package quota

import (
	"context"
	"fmt"
)

// MaxHistoryDays bounds how far back History reads.
const MaxHistoryDays = 90

// DayUsage is the import count recorded for one day.
type DayUsage struct {
	Date    string `json:"date" yaml:"date"`
	Imports int    `json:"imports" yaml:"imports"`
}

// HistoryStore is a Store that can list recorded days in one query.
// Stores without it are read one day at a time.
type HistoryStore interface {
	Store
	History(ctx context.Context, since string) ([]DayUsage, error)
}

// History returns usage for the last days, today first. Days without
// imports are reported with a zero count. Unlike Info, read errors are
// returned: history is a report, not a gate.
func (t *Tracker) History(ctx context.Context, days int) ([]DayUsage, error) {
	if days <= 0 {
		days = 1
	}
	if days > MaxHistoryDays {
		days = MaxHistoryDays
	}

	today := t.now().Local()
	dates := make([]string, days)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, -i).Format(dateLayout)
	}

	counts := make(map[string]int, days)
	if hs, ok := t.store.(HistoryStore); ok {
		rows, err := hs.History(ctx, dates[days-1])
		if err != nil {
			return nil, fmt.Errorf("read quota history: %w", err)
		}
		for _, row := range rows {
			counts[row.Date] = row.Imports
		}
	} else {
		for _, date := range dates {
			count, err := t.store.Count(ctx, date)
			if err != nil {
				return nil, fmt.Errorf("read quota for %s: %w", date, err)
			}
			counts[date] = count
		}
	}

	out := make([]DayUsage, days)
	for i, date := range dates {
		out[i] = DayUsage{Date: date, Imports: counts[date]}
	}
	return out, nil
}
