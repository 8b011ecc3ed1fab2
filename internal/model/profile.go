package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidRank = errors.New("model: invalid rank")
	ErrInvalidTier = errors.New("model: invalid rank tier")
)

type Rank string

const (
	RankIron     Rank = "Iron"
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
	RankDiamond  Rank = "Diamond"
	RankMythic   Rank = "Mythic"
)

// RankLadder orders ranks from lowest to highest.
var RankLadder = []Rank{RankIron, RankBronze, RankSilver, RankGold, RankPlatinum, RankDiamond, RankMythic}

func (r Rank) IsValid() bool {
	for _, known := range RankLadder {
		if r == known {
			return true
		}
	}
	return false
}

type Tier string

const (
	TierIV  Tier = "IV"
	TierIII Tier = "III"
	TierII  Tier = "II"
	TierI   Tier = "I"
)

// TierLadder orders tiers from lowest to highest within a rank.
var TierLadder = []Tier{TierIV, TierIII, TierII, TierI}

func (t Tier) IsValid() bool {
	for _, known := range TierLadder {
		if t == known {
			return true
		}
	}
	return false
}

const (
	// XPPerLevel converts lifetime XP into a level: level = xp/XPPerLevel + 1.
	XPPerLevel = 500
	// XPPerTier is the rank-XP cost of one tier step.
	XPPerTier = 100
	// XPPerRank is the rank-XP cost of a full rank (four tiers).
	XPPerRank = XPPerTier * 4
)

type UserProfile struct {
	Name           string
	XP             int
	RankXP         int
	Level          int
	Streak         int
	TotalCompleted int
	CurrentRank    Rank
	CurrentTier    Tier
	HighestRank    string
	Badges         []string // unlocked badge IDs
	Onboarded      bool
	TutorialDone   bool
	Settings       Settings
	CreatedAt      time.Time
}

func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("model: profile name is required")
	}
	if p.XP < 0 || p.RankXP < 0 {
		return errors.New("model: profile xp counters must not be negative")
	}
	if p.Level < 1 {
		return errors.New("model: profile level must be at least 1")
	}
	if !p.CurrentRank.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRank, p.CurrentRank)
	}
	if !p.CurrentTier.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTier, p.CurrentTier)
	}
	return nil
}

// HasBadge reports whether the badge with the given ID is unlocked.
func (p UserProfile) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}
