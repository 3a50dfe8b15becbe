// Package history aggregates stored entries into the summaries served by
// the API: monthly totals, a daily breakdown, the weekly goal status, the
// public leaderboard and overall insights. It also reads and writes the
// CSV history format.
//
// All functions are pure; "today" is always passed in by the caller.
package history
