package storage

import (
	"context"
	"time"
)

// State is the full dataset the app boots from.
type State struct {
	Tasks   []Task
	Profile Profile
	History []HistoryEntry
}

var weekdayOrder = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DefaultProfile is the zeroed profile a fresh installation starts with.
func DefaultProfile(now time.Time) Profile {
	return Profile{
		Key:                  ProfileKey,
		Level:                1,
		CurrentRank:          "Iron",
		CurrentTier:          "IV",
		HighestRank:          "Iron IV",
		ThemeColor:           "violet",
		NotificationsEnabled: true,
		ModelPreference:      "fast",
		RankedMode:           true,
		CreatedAt:            now,
	}
}

// LoadState reads everything the app needs, substituting documented defaults
// for missing or unreadable pieces: an empty task list, a zeroed Iron IV
// profile, and seven zero-count weekday buckets. Corruption is never surfaced
// as an error, only as a fresh state.
func LoadState(ctx context.Context, repo Repository, now time.Time) State {
	st := State{
		Profile: DefaultProfile(now),
		History: defaultHistoryEntries(),
	}

	if tasks, err := repo.ListTasks(ctx, TaskListFilter{}); err == nil {
		st.Tasks = tasks
	} else {
		st.Tasks = []Task{}
	}

	if p, err := repo.GetProfile(ctx); err == nil {
		st.Profile = p
	}

	if hist, err := repo.ListHistory(ctx); err == nil && len(hist) > 0 {
		st.History = mergeHistory(hist)
	}

	return st
}

func defaultHistoryEntries() []HistoryEntry {
	out := make([]HistoryEntry, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		out = append(out, HistoryEntry{Day: day})
	}
	return out
}

// mergeHistory projects stored rows onto the fixed Sun..Sat order, filling
// gaps with zero counts.
func mergeHistory(stored []HistoryEntry) []HistoryEntry {
	counts := make(map[string]int, len(stored))
	for _, e := range stored {
		counts[e.Day] = e.Count
	}
	out := make([]HistoryEntry, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		out = append(out, HistoryEntry{Day: day, Count: counts[day]})
	}
	return out
}
