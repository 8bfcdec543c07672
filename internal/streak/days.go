// Package streak derives day streaks from the set of calendar days on which
// at least one task was completed.
package streak

import (
	"slices"
	"time"
)

const dayLayout = time.DateOnly

// DayKey returns the calendar day of t in t's own location.
func DayKey(t time.Time) string {
	return t.Format(dayLayout)
}

func parseDay(key string) (time.Time, bool) {
	d, err := time.Parse(dayLayout, key)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// previousDay returns the key of the calendar day before key.
func previousDay(key string) string {
	d, ok := parseDay(key)
	if !ok {
		return ""
	}
	return d.AddDate(0, 0, -1).Format(dayLayout)
}

// normalizeDays drops malformed keys and duplicates and sorts ascending.
func normalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := parseDay(d); ok {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// CurrentStreak counts consecutive days back from the most recent day in
// days. The streak is dead, and zero, unless that day is today or
// yesterday, so a day later than today also reads as zero.
func CurrentStreak(days []string, today time.Time) int {
	sorted := normalizeDays(days)
	if len(sorted) == 0 {
		return 0
	}
	cursor := sorted[len(sorted)-1]
	if key := DayKey(today); cursor != key && cursor != previousDay(key) {
		return 0
	}
	set := make(map[string]struct{}, len(sorted))
	for _, d := range sorted {
		set[d] = struct{}{}
	}
	count := 0
	for {
		if _, ok := set[cursor]; !ok {
			return count
		}
		count++
		cursor = previousDay(cursor)
	}
}

// LongestStreak is the longest run of consecutive days, never less than
// current.
func LongestStreak(days []string, current int) int {
	sorted := normalizeDays(days)
	longest, run := 0, 0
	var prev time.Time
	for i, key := range sorted {
		d, _ := parseDay(key)
		if i > 0 && d.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
		prev = d
	}
	return max(longest, current)
}

// IsAlive reports whether a streak of current days ending on lastActive is
// still running on today.
func IsAlive(current int, lastActive string, today time.Time) bool {
	if current <= 0 || lastActive == "" {
		return false
	}
	key := DayKey(today)
	return lastActive == key || lastActive == previousDay(key)
}
