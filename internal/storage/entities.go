package storage

import "time"

type Task struct {
	ID          string
	Title       string
	StartTime   string
	EndTime     string
	Date        string
	IsCompleted bool
	IsLate      bool
	XPValue     int
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Profile struct {
	Key                  string
	Name                 string
	XP                   int
	RankXP               int
	Level                int
	Streak               int
	TotalCompleted       int
	CurrentRank          string
	CurrentTier          string
	HighestRank          string
	Onboarded            bool
	TutorialDone         bool
	ThemeColor           string
	HighContrast         bool
	NotificationsEnabled bool
	MentorPersonality    string
	ModelPreference      string
	RankedMode           bool
	CreatedAt            time.Time
}

type BadgeUnlock struct {
	BadgeID    string
	UnlockedAt time.Time
}

type HistoryEntry struct {
	Day   string // weekday abbreviation, Sun..Sat
	Count int
}

type TaskListFilter struct {
	Date      string
	Completed *bool
	Limit     int
	Offset    int
}
