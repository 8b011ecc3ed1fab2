package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTheme = errors.New("model: invalid theme color")
	ErrInvalidModel = errors.New("model: invalid chat model preference")
)

type ThemeColor string

const (
	ThemeViolet  ThemeColor = "violet"
	ThemeEmerald ThemeColor = "emerald"
	ThemeBlue    ThemeColor = "blue"
	ThemeRose    ThemeColor = "rose"
	ThemeAmber   ThemeColor = "amber"
)

func (t ThemeColor) IsValid() bool {
	switch t {
	case ThemeViolet, ThemeEmerald, ThemeBlue, ThemeRose, ThemeAmber:
		return true
	default:
		return false
	}
}

type ChatModel string

const (
	ChatModelFast   ChatModel = "fast"
	ChatModelGenius ChatModel = "genius"
)

func (m ChatModel) IsValid() bool {
	switch m {
	case ChatModelFast, ChatModelGenius:
		return true
	default:
		return false
	}
}

// DefaultMentorPersonality seeds the mentor's system persona for new profiles.
const DefaultMentorPersonality = "Brilliant, supportive, and slightly eccentric academic mentor."

type Settings struct {
	Color                ThemeColor
	HighContrast         bool
	NotificationsEnabled bool
	MentorPersonality    string
	ModelPreference      ChatModel
	RankedMode           bool
}

func DefaultSettings() Settings {
	return Settings{
		Color:                ThemeViolet,
		HighContrast:         false,
		NotificationsEnabled: true,
		MentorPersonality:    DefaultMentorPersonality,
		ModelPreference:      ChatModelFast,
		RankedMode:           true,
	}
}

func (s Settings) Validate() error {
	if !s.Color.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, s.Color)
	}
	if !s.ModelPreference.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidModel, s.ModelPreference)
	}
	return nil
}
