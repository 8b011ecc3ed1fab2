package engine

import (
	"github.com/rudhh/questly/internal/model"
	"github.com/rudhh/questly/internal/sound"
)

// DeltaKind distinguishes why XP is being applied. Only completions count
// toward the finished-task total; badge bonuses and deletions never touch it.
type DeltaKind string

const (
	DeltaCompletion DeltaKind = "completion"
	DeltaDeletion   DeltaKind = "deletion"
	DeltaBonus      DeltaKind = "bonus"
)

type RewardResult struct {
	Delta       int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	Events      []sound.Event
}

// LevelForXP derives the level from floored lifetime XP. Because it is always
// recomputed fresh, a negative delta can lower the level again; that mirrors
// the shipped behavior and is intentional.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/model.XPPerLevel + 1
}

// ApplyDelta folds a signed XP delta into the profile. Both accumulators
// saturate at zero; they are never allowed to go negative.
func ApplyDelta(p *model.UserProfile, delta int, kind DeltaKind) RewardResult {
	res := RewardResult{Delta: delta, LevelBefore: p.Level}

	p.XP = clampAtZero(p.XP + delta)
	p.RankXP = clampAtZero(p.RankXP + delta)
	p.Level = LevelForXP(p.XP)

	if kind == DeltaCompletion && delta >= 0 {
		p.TotalCompleted++
	}

	p.CurrentRank, p.CurrentTier = RankForXP(p.RankXP)
	recordHighestRank(p)

	res.LevelAfter = p.Level
	res.LevelUp = p.Level > res.LevelBefore

	switch kind {
	case DeltaCompletion:
		if delta > 0 {
			res.Events = append(res.Events, sound.EventComplete)
		} else {
			res.Events = append(res.Events, sound.EventDelete)
		}
	case DeltaDeletion:
		res.Events = append(res.Events, sound.EventDelete)
	}
	if res.LevelUp {
		res.Events = append(res.Events, sound.EventBadge)
	}
	return res
}

func clampAtZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
