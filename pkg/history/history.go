package history

import (
	"sort"
	"time"

	"github.com/doodlesbykumbi/footprint/pkg/emissions"
	"github.com/doodlesbykumbi/footprint/pkg/model"
)

const (
	DefaultDailyDays       = 14
	DefaultLeaderboardDays = 7
	DefaultLeaderboardSize = 10
	DefaultWeeklyTarget    = 20.0
)

// MonthTotal sums every entry of a calendar month.
type MonthTotal struct {
	Month string `json:"month"`
	emissions.Breakdown
	Entries int `json:"entries"`
}

// DayTotal sums every entry of a single date.
type DayTotal struct {
	Date string `json:"date"`
	emissions.Breakdown
}

// WeekStatus compares the current week's emissions to a target.
type WeekStatus struct {
	WeekStart string  `json:"week_start"`
	Today     string  `json:"today"`
	Total     float64 `json:"weekly_total"`
	Target    float64 `json:"weekly_target"`
	Exceeded  bool    `json:"exceeded"`
	Remaining float64 `json:"remaining"`
}

// LeaderboardRow is one alias and its total over the leaderboard window.
type LeaderboardRow struct {
	Rank        int     `json:"rank"`
	Alias       string  `json:"alias"`
	WeeklyTotal float64 `json:"weekly_total_kg_co2"`
}

// Insights summarizes all of a user's entries.
type Insights struct {
	Total           float64 `json:"total"`
	AveragePerEntry float64 `json:"average_per_entry"`
	Entries         int     `json:"entries"`
}

// MonthlyTotals groups entries by YYYY-MM, ascending.
func MonthlyTotals(entries []model.Entry) []MonthTotal {
	byMonth := map[string]*MonthTotal{}
	for _, e := range entries {
		if len(e.Date) < 7 {
			continue
		}
		month := e.Date[:7]
		mt, ok := byMonth[month]
		if !ok {
			mt = &MonthTotal{Month: month}
			byMonth[month] = mt
		}
		mt.Breakdown = mt.Breakdown.Add(e.Breakdown())
		mt.Entries++
	}

	out := make([]MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// DailyBreakdown returns per-category sums for the last n dates that have
// entries, ascending. n <= 0 uses DefaultDailyDays.
func DailyBreakdown(entries []model.Entry, n int) []DayTotal {
	if n <= 0 {
		n = DefaultDailyDays
	}
	byDate := map[string]emissions.Breakdown{}
	for _, e := range entries {
		byDate[e.Date] = byDate[e.Date].Add(e.Breakdown())
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > n {
		dates = dates[len(dates)-n:]
	}

	out := make([]DayTotal, 0, len(dates))
	for _, d := range dates {
		out = append(out, DayTotal{Date: d, Breakdown: byDate[d]})
	}
	return out
}

// WeekStart returns the Monday of the week containing today.
func WeekStart(today time.Time) time.Time {
	d := truncateDay(today)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeeklyStatus sums entries from WeekStart(today) through today inclusive.
// The target is exceeded only when the total is strictly greater.
func WeeklyStatus(entries []model.Entry, target float64, today time.Time) WeekStatus {
	start := WeekStart(today).Format(model.DateLayout)
	end := truncateDay(today).Format(model.DateLayout)

	var total float64
	for _, e := range entries {
		if e.Date >= start && e.Date <= end {
			total += e.TotalEmission
		}
	}

	remaining := target - total
	if remaining < 0 {
		remaining = 0
	}
	return WeekStatus{
		WeekStart: start,
		Today:     end,
		Total:     total,
		Target:    target,
		Exceeded:  total > target,
		Remaining: remaining,
	}
}

// LeaderboardSince returns the first date included in the leaderboard window.
func LeaderboardSince(today time.Time, days int) time.Time {
	if days <= 0 {
		days = DefaultLeaderboardDays
	}
	return truncateDay(today).AddDate(0, 0, -days)
}

// Leaderboard groups entries dated on or after since by alias and ranks them
// by ascending total, lower being better. Entries without an alias use
// resolveAlias(userID); an empty result becomes model.AnonymousAlias.
func Leaderboard(entries []model.Entry, since time.Time, limit int, resolveAlias func(userID string) string) []LeaderboardRow {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	from := truncateDay(since).Format(model.DateLayout)

	totals := map[string]float64{}
	for _, e := range entries {
		if e.Date < from {
			continue
		}
		alias := e.Alias
		if alias == "" && resolveAlias != nil {
			alias = resolveAlias(e.UserID)
		}
		if alias == "" {
			alias = model.AnonymousAlias
		}
		totals[alias] += e.TotalEmission
	}

	rows := make([]LeaderboardRow, 0, len(totals))
	for alias, total := range totals {
		rows = append(rows, LeaderboardRow{Alias: alias, WeeklyTotal: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WeeklyTotal != rows[j].WeeklyTotal {
			return rows[i].WeeklyTotal < rows[j].WeeklyTotal
		}
		return rows[i].Alias < rows[j].Alias
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// Summarize computes the total and mean emission over all entries.
func Summarize(entries []model.Entry) Insights {
	var total float64
	for _, e := range entries {
		total += e.TotalEmission
	}
	in := Insights{Total: total, Entries: len(entries)}
	if len(entries) > 0 {
		in.AveragePerEntry = total / float64(len(entries))
	}
	return in
}

// Recent returns the last n entries by date.
func Recent(entries []model.Entry, n int) []model.Entry {
	sorted := make([]model.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
