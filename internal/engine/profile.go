package engine

import (
	"strings"
	"time"

	"github.com/rudhh/questly/internal/model"
)

// RankForXP derives the rank/tier pair from the rank-XP accumulator. Each tier
// costs XPPerTier points and each rank holds four tiers; past the Mythic cap
// the ladder clamps at Mythic I instead of cycling tiers again.
func RankForXP(rankXP int) (model.Rank, model.Tier) {
	if rankXP < 0 {
		rankXP = 0
	}
	rankIdx := rankXP / model.XPPerRank
	if rankIdx >= len(model.RankLadder) {
		return model.RankMythic, model.TierI
	}
	tierIdx := (rankXP % model.XPPerRank) / model.XPPerTier
	return model.RankLadder[rankIdx], model.TierLadder[tierIdx]
}

// TierProgress reports points earned within the current tier and the points
// still needed to reach the next one.
func TierProgress(rankXP int) (have, need int) {
	if rankXP < 0 {
		rankXP = 0
	}
	have = rankXP % model.XPPerTier
	return have, model.XPPerTier - have
}

func rankOrdinal(r model.Rank, t model.Tier) int {
	ri, ti := 0, 0
	for i, known := range model.RankLadder {
		if known == r {
			ri = i
		}
	}
	for i, known := range model.TierLadder {
		if known == t {
			ti = i
		}
	}
	return ri*len(model.TierLadder) + ti
}

func recordHighestRank(p *model.UserProfile) {
	current := string(p.CurrentRank) + " " + string(p.CurrentTier)
	if p.HighestRank == "" {
		p.HighestRank = current
		return
	}
	best := parseRankLabel(p.HighestRank)
	if rankOrdinal(p.CurrentRank, p.CurrentTier) > best {
		p.HighestRank = current
	}
}

func parseRankLabel(label string) int {
	name, tier, ok := strings.Cut(label, " ")
	if !ok {
		return 0
	}
	return rankOrdinal(model.Rank(name), model.Tier(tier))
}

// Onboard produces the initial profile created once during first run: all
// counters zeroed, Iron IV, default settings.
func Onboard(name string, now time.Time) model.UserProfile {
	return model.UserProfile{
		Name:        strings.TrimSpace(name),
		Level:       1,
		CurrentRank: model.RankIron,
		CurrentTier: model.TierIV,
		HighestRank: string(model.RankIron) + " " + string(model.TierIV),
		Onboarded:   true,
		Settings:    model.DefaultSettings(),
		CreatedAt:   now,
	}
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	Color                *model.ThemeColor
	HighContrast         *bool
	NotificationsEnabled *bool
	MentorPersonality    *string
	ModelPreference      *model.ChatModel
	RankedMode           *bool
}

// ApplySettings merges a patch into the profile without mutating the input.
func ApplySettings(p model.UserProfile, patch SettingsPatch) model.UserProfile {
	s := p.Settings
	if patch.Color != nil {
		s.Color = *patch.Color
	}
	if patch.HighContrast != nil {
		s.HighContrast = *patch.HighContrast
	}
	if patch.NotificationsEnabled != nil {
		s.NotificationsEnabled = *patch.NotificationsEnabled
	}
	if patch.MentorPersonality != nil {
		s.MentorPersonality = *patch.MentorPersonality
	}
	if patch.ModelPreference != nil {
		s.ModelPreference = *patch.ModelPreference
	}
	if patch.RankedMode != nil {
		s.RankedMode = *patch.RankedMode
	}
	p.Settings = s
	return p
}
