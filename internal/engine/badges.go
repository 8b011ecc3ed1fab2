package engine

import (
	"time"

	"github.com/rudhh/questly/internal/model"
)

const (
	badgeFoundation   = "1"
	badgeStreakWeek   = "2"
	badgeStreakMonth  = "3"
	badgeEarly        = "6"
	badgeLate         = "7"
	badgeCenturion    = "9"
	badgeEliteMastery = "10"
)

// EvaluateBadges returns catalog badges the profile newly qualifies for after
// a completion at the given instant. Criteria that need data this core does
// not track (categories, difficulty counts) are left to their screens.
func EvaluateBadges(p model.UserProfile, completedAt time.Time) []model.Badge {
	unlocked := make([]model.Badge, 0, 2)
	add := func(id string) {
		if p.HasBadge(id) {
			return
		}
		if b, ok := model.BadgeByID(id); ok {
			unlocked = append(unlocked, b)
		}
	}

	if p.TotalCompleted >= 1 {
		add(badgeFoundation)
	}
	if p.TotalCompleted >= 100 {
		add(badgeCenturion)
	}
	if p.Level >= 10 {
		add(badgeEliteMastery)
	}
	if p.Streak >= 7 {
		add(badgeStreakWeek)
	}
	if p.Streak >= 30 {
		add(badgeStreakMonth)
	}
	if completedAt.Hour() < 8 {
		add(badgeEarly)
	}
	if completedAt.Hour() >= 22 {
		add(badgeLate)
	}
	return unlocked
}
