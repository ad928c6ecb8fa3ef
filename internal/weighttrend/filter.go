package weighttrend

import (
	"sort"
	"time"
)

type FilterResult struct {
	// Entries are the valid entries inside the window, sorted by date ascending.
	Entries []WeightLogEntry
	// Valid is the number of valid entries in the whole history.
	Valid int
	// Dropped is the number of entries rejected because of a non-finite or non-positive weight.
	Dropped int
}

// Filter selects the part of the history relevant to the given time window.
// The history slice is not modified.
func Filter(history []WeightLogEntry, window TimeWindow, now time.Time) FilterResult {
	res := FilterResult{}
	valid := make([]WeightLogEntry, 0, len(history))
	for _, e := range history {
		if !e.IsValid() {
			res.Dropped++
			continue
		}
		valid = append(valid, e)
	}
	res.Valid = len(valid)

	// stable, so same-day entries keep the order they came in
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Date.Before(valid[j].Date)
	})

	days, bounded := window.Days()
	if !bounded {
		res.Entries = valid
		return res
	}

	cutoff := now.AddDate(0, 0, -days)
	res.Entries = make([]WeightLogEntry, 0, len(valid))
	for _, e := range valid {
		if !e.Date.Before(cutoff) {
			res.Entries = append(res.Entries, e)
		}
	}

	return res
}
