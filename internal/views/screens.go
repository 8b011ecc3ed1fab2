package views

import (
	"fmt"
	"strings"
)

type TaskCardData struct {
	ID           string
	Title        string
	Window       string
	State        string
	Progress     float64
	ProgressView string
	Label        string
	XPValue      int
	Selected     bool
}

type HomePanelData struct {
	Date  string
	Cards []TaskCardData
}

type ProfilePanelData struct {
	Name           string
	Level          int
	XP             int
	RankLabel      string
	HighestRank    string
	TotalCompleted int
	Streak         int
	Badges         []BadgeData
}

type BadgeData struct {
	Icon     string
	Name     string
	Unlocked bool
}

type ProgressPanelData struct {
	Bars      []WeekdayBarData
	TierHave  int
	TierNeed  int
	RankLabel string
}

type WeekdayBarData struct {
	Day   string
	Count int
}

type MentorPanelData struct {
	Transcript   string
	InputView    string
	Thinking     bool
	SpinnerView  string
	PersonaLabel string
}

type OnboardingPanelData struct {
	Step      int
	NameInput string
}

type SettingsPanelData struct {
	Rows   []SettingsRowData
	Cursor int
}

type SettingsRowData struct {
	Label string
	Value string
}

func RenderHomePanel(data HomePanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "quests for %s:\n", data.Date)
	b.WriteString("actions: [j/k]move [enter]complete [d]delete [a]add [/]cmd\n")
	if len(data.Cards) == 0 {
		b.WriteString("\n(no quests yet: press [a] to add one)")
		return b.String()
	}
	for _, card := range data.Cards {
		b.WriteString("\n" + renderTaskCard(card))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderTaskCard(card TaskCardData) string {
	cursor := " "
	if card.Selected {
		cursor = ">"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s (%s) +%dxp\n", cursor, strings.ToUpper(card.State), card.Title, card.Window, card.XPValue)
	if card.ProgressView != "" {
		fmt.Fprintf(&b, "   %s %3.0f%%\n", card.ProgressView, card.Progress)
	}
	fmt.Fprintf(&b, "   %s\n", card.Label)
	return b.String()
}

func RenderProfilePanel(data ProfilePanelData) string {
	var b strings.Builder
	b.WriteString("profile:\n")
	fmt.Fprintf(&b, "name: %s\n", data.Name)
	fmt.Fprintf(&b, "level %d | %d xp\n", data.Level, data.XP)
	fmt.Fprintf(&b, "rank: %s (best: %s)\n", data.RankLabel, data.HighestRank)
	fmt.Fprintf(&b, "completed: %d | streak: %d\n", data.TotalCompleted, data.Streak)
	b.WriteString("\nbadges:\n")
	for _, badge := range data.Badges {
		mark := " "
		if badge.Unlocked {
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %s %s\n", mark, badge.Icon, badge.Name)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderProgressPanel(data ProgressPanelData) string {
	var b strings.Builder
	b.WriteString("this week:\n")
	max := 1
	for _, bar := range data.Bars {
		if bar.Count > max {
			max = bar.Count
		}
	}
	for _, bar := range data.Bars {
		width := bar.Count * 20 / max
		fmt.Fprintf(&b, "%s %s %d\n", bar.Day, strings.Repeat("█", width), bar.Count)
	}
	fmt.Fprintf(&b, "\nrank: %s\n", data.RankLabel)
	fmt.Fprintf(&b, "next tier: %d/%d xp\n", data.TierHave, data.TierHave+data.TierNeed)
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderMentorPanel(data MentorPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mentor (%s):\n", data.PersonaLabel)
	b.WriteString(data.Transcript + "\n")
	if data.Thinking {
		fmt.Fprintf(&b, "%s thinking...\n", data.SpinnerView)
	}
	b.WriteString("\n> " + data.InputView)
	return b.String()
}

func RenderOnboardingPanel(data OnboardingPanelData) string {
	var b strings.Builder
	b.WriteString("welcome to questly\n\n")
	switch data.Step {
	case 0:
		b.WriteString("what should your mentor call you?\n\n")
		b.WriteString("name: " + data.NameInput + "\n")
		b.WriteString("\n[enter] continue")
	default:
		b.WriteString("quests are time-boxed: finish inside the window to earn XP.\n")
		b.WriteString("late completions count, but pay nothing.\n")
		b.WriteString("\n[enter] start questing")
	}
	return b.String()
}

func RenderSettingsPanel(data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString("actions: [j/k]move [enter/space]cycle\n\n")
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		fmt.Fprintf(&b, "%s %-22s %s\n", cursor, row.Label, row.Value)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}
