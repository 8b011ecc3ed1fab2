package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rudhh/questly/internal/engine"
	"github.com/rudhh/questly/internal/mentor"
	"github.com/rudhh/questly/internal/model"
	"github.com/rudhh/questly/internal/views"
)

func (m Model) renderHome() string {
	cards := make([]views.TaskCardData, 0, len(m.Tasks))
	for i, task := range m.Tasks {
		st, ok := m.Statuses[task.ID]
		if !ok {
			st = engine.ComputeStatus(task, m.now(), m.log)
		}
		card := views.TaskCardData{
			ID:       task.ID,
			Title:    task.Title,
			Window:   task.StartTime + "-" + task.EndTime,
			State:    string(st.State),
			Progress: st.Progress,
			Label:    st.Label,
			XPValue:  task.XPValue,
			Selected: i == m.Cursor,
		}
		if st.State == engine.StateActive {
			card.ProgressView = m.taskProgress.ViewAs(st.Progress / 100)
		}
		cards = append(cards, card)
	}
	return views.RenderHomePanel(views.HomePanelData{Date: m.today(), Cards: cards})
}

func (m Model) renderHomeSidePane() string {
	palette := views.RenderCommandPalette(m.Palette.Active, m.commandInput.Value())
	if palette != "" {
		return palette
	}
	task, ok := m.selectedTask()
	if !ok {
		return "details:\n(no quest selected)"
	}
	st := m.Statuses[task.ID]
	var b strings.Builder
	b.WriteString("details:\n")
	fmt.Fprintf(&b, "id: %s\n", shortID(task.ID))
	fmt.Fprintf(&b, "window: %s-%s\n", task.StartTime, task.EndTime)
	fmt.Fprintf(&b, "state: %s\n", st.State)
	fmt.Fprintf(&b, "%s\n", st.Label)
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderMentor() string {
	var transcript strings.Builder
	for _, line := range m.Chat {
		if line.FromUser {
			transcript.WriteString("you: " + line.Text + "\n")
			continue
		}
		transcript.WriteString(views.RenderMarkdown(line.Text) + "\n")
		if line.Thinking != "" {
			transcript.WriteString("  (" + line.Thinking + ")\n")
		}
	}
	m.chatViewport.SetContent(strings.TrimSuffix(transcript.String(), "\n"))

	return views.RenderMentorPanel(views.MentorPanelData{
		Transcript:   m.chatViewport.View(),
		InputView:    m.chatInput.View(),
		Thinking:     m.Thinking,
		SpinnerView:  m.mentorWait.View(),
		PersonaLabel: m.personaLabel(),
	})
}

func (m Model) renderProgress() string {
	bars := make([]views.WeekdayBarData, 0, len(m.History))
	for _, day := range m.History {
		bars = append(bars, views.WeekdayBarData{Day: day.Day, Count: day.Count})
	}
	have, need := engine.TierProgress(m.Profile.RankXP)
	return views.RenderProgressPanel(views.ProgressPanelData{
		Bars:      bars,
		TierHave:  have,
		TierNeed:  need,
		RankLabel: string(m.Profile.CurrentRank) + " " + string(m.Profile.CurrentTier),
	})
}

func (m Model) renderProfile() string {
	badges := make([]views.BadgeData, 0, len(model.BadgeCatalog))
	for _, badge := range model.BadgeCatalog {
		badges = append(badges, views.BadgeData{
			Icon:     badge.Icon,
			Name:     badge.Name,
			Unlocked: m.Profile.HasBadge(badge.ID),
		})
	}
	return views.RenderProfilePanel(views.ProfilePanelData{
		Name:           m.Profile.Name,
		Level:          m.Profile.Level,
		XP:             m.Profile.XP,
		RankLabel:      string(m.Profile.CurrentRank) + " " + string(m.Profile.CurrentTier),
		HighestRank:    m.Profile.HighestRank,
		TotalCompleted: m.Profile.TotalCompleted,
		Streak:         m.Profile.Streak,
		Badges:         badges,
	})
}

// settingsRows is the fixed order of the settings screen.
var settingsRows = []string{"theme", "high contrast", "notifications", "mentor model", "ranked mode"}

func (m Model) renderSettings() string {
	s := m.Profile.Settings
	rows := []views.SettingsRowData{
		{Label: "theme", Value: string(s.Color)},
		{Label: "high contrast", Value: onOff(s.HighContrast)},
		{Label: "notifications", Value: onOff(s.NotificationsEnabled)},
		{Label: "mentor model", Value: string(s.ModelPreference)},
		{Label: "ranked mode", Value: onOff(s.RankedMode)},
	}
	return views.RenderSettingsPanel(views.SettingsPanelData{Rows: rows, Cursor: m.SettingsCursor})
}

func (m Model) handleOnboardingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "enter":
		if m.OnboardingStep == 0 {
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				m.fail(fmt.Errorf("update: a name is required"))
				return m, nil
			}
			profile, err := m.svc.Onboard(appContext(), name)
			if err != nil {
				m.fail(err)
				return m, nil
			}
			m.Profile = profile
			m.OnboardingStep = 1
			m.nameInput.Blur()
			return m, nil
		}
		if err := m.svc.MarkTutorialDone(appContext()); err != nil {
			m.fail(err)
			return m, nil
		}
		m.CurrentScreen = ScreenHome
		m.info(fmt.Sprintf("welcome, %s", m.Profile.Name))
		m.reload()
		return m, nil
	}
	if m.OnboardingStep == 0 {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMentorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "1":
		m.CurrentScreen = ScreenHome
		m.chatInput.Blur()
		return m, nil
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "enter":
		text := strings.TrimSpace(m.chatInput.Value())
		if text == "" || m.Thinking {
			return m, nil
		}
		m.Chat = append(m.Chat, chatLine{FromUser: true, Text: text})
		m.chatInput.SetValue("")
		m.Thinking = true
		m.syncChatViewport()
		return m, tea.Batch(m.mentorWait.Tick, m.askMentorCmd(text))
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) askMentorCmd(text string) tea.Cmd {
	cli := m.mentorCli
	if cli == nil {
		cli = mentor.NewScripted(m.Profile.Settings.MentorPersonality)
	}
	svc := m.svc
	userName := m.Profile.Name
	return func() tea.Msg {
		ctx := appContext()
		tasks, err := svc.ActiveTasks(ctx)
		if err != nil {
			return MentorReplyMsg{Err: err}
		}
		reply, err := cli.Send(ctx, mentor.BuildSnapshot(userName, tasks), text)
		return MentorReplyMsg{Reply: reply, Err: err}
	}
}

func (m *Model) syncChatViewport() {
	m.chatViewport.GotoBottom()
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.SettingsCursor < len(settingsRows)-1 {
			m.SettingsCursor++
		}
	case "k", "up":
		if m.SettingsCursor > 0 {
			m.SettingsCursor--
		}
	case "enter", " ":
		m = m.cycleSetting(m.SettingsCursor)
	}
	return m
}

// cycleSetting advances the highlighted settings row to its next value and
// persists the change.
func (m Model) cycleSetting(row int) Model {
	s := m.Profile.Settings
	patch := engine.SettingsPatch{}
	switch settingsRows[row] {
	case "theme":
		next := nextTheme(s.Color)
		patch.Color = &next
	case "high contrast":
		v := !s.HighContrast
		patch.HighContrast = &v
	case "notifications":
		v := !s.NotificationsEnabled
		patch.NotificationsEnabled = &v
	case "mentor model":
		next := model.ChatModelFast
		if s.ModelPreference == model.ChatModelFast {
			next = model.ChatModelGenius
		}
		patch.ModelPreference = &next
	case "ranked mode":
		v := !s.RankedMode
		patch.RankedMode = &v
	}

	profile, err := m.svc.UpdateSettings(appContext(), patch)
	if err != nil {
		m.fail(err)
		return m
	}
	m.Profile = profile
	m.info("settings saved")
	return m
}

var themeOrder = []model.ThemeColor{
	model.ThemeViolet, model.ThemeEmerald, model.ThemeBlue, model.ThemeRose, model.ThemeAmber,
}

func nextTheme(current model.ThemeColor) model.ThemeColor {
	for i, color := range themeOrder {
		if color == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
