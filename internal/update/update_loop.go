package update

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rudhh/questly/internal/mentor"
	"github.com/rudhh/questly/internal/scheduler"
	"github.com/rudhh/questly/internal/views"
)

type TickMsg time.Time

type WindowEventMsg struct {
	Event scheduler.WindowEvent
}

type MentorReplyMsg struct {
	Reply mentor.Reply
	Err   error
}

func appContext() context.Context {
	return context.Background()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForWindowEventCmd(ch <-chan scheduler.WindowEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return WindowEventMsg{Event: ev}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.scheduler != nil {
		cmds = append(cmds, waitForWindowEventCmd(m.scheduler.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)

	case TickMsg:
		m.recompute(time.Time(typed))
		return m, tickCmd()

	case tea.FocusMsg:
		// Terminal regained focus; catch up immediately instead of waiting
		// for the next tick.
		m.recompute(m.now())
		return m, nil

	case WindowEventMsg:
		m = m.onWindowEvent(typed.Event)
		if m.scheduler != nil {
			return m, waitForWindowEventCmd(m.scheduler.C())
		}
		return m, nil

	case MentorReplyMsg:
		m.Thinking = false
		if typed.Err != nil {
			m.fail(typed.Err)
			return m, nil
		}
		m.Chat = append(m.Chat, chatLine{Text: typed.Reply.Text, Thinking: typed.Reply.Thinking})
		m.syncChatViewport()
		return m, nil

	case spinner.TickMsg:
		if m.Thinking {
			var cmd tea.Cmd
			m.mentorWait, cmd = m.mentorWait.Update(typed)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.CurrentScreen == ScreenOnboarding {
		return m.handleOnboardingKey(msg)
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg), nil
	}
	if m.CurrentScreen == ScreenMentor {
		return m.handleMentorKey(msg)
	}

	switch msg.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.info("command palette active")
		return m, nil
	case "1":
		m.CurrentScreen = ScreenHome
		return m, nil
	case "2":
		m.CurrentScreen = ScreenMentor
		m.chatInput.Focus()
		return m, nil
	case "3":
		m.CurrentScreen = ScreenProgress
		m.reload()
		return m, nil
	case "4":
		m.CurrentScreen = ScreenProfile
		m.reload()
		return m, nil
	case "5":
		m.CurrentScreen = ScreenSettings
		return m, nil
	case "?":
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "q", "ctrl+c":
		m.Quitting = true
		if m.scheduler != nil {
			m.scheduler.Stop()
		}
		return m, tea.Quit
	}

	switch m.CurrentScreen {
	case ScreenHome:
		return m.handleHomeKey(msg), nil
	case ScreenSettings:
		return m.handleSettingsKey(msg), nil
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "a":
		m.Palette.Active = true
		m.Palette.Input = "add "
		m.commandInput.SetValue("add ")
		m.commandInput.Focus()
		m.info("describe the quest: add TITLE HH:mm-HH:mm")
	case "enter":
		m = m.completeSelected()
	case "d":
		m = m.deleteSelected()
	}
	return m
}

func (m Model) completeSelected() Model {
	task, ok := m.selectedTask()
	if !ok {
		return m
	}
	res, err := m.svc.CompleteTask(appContext(), task.ID)
	if err != nil {
		m.fail(err)
		return m
	}
	if m.scheduler != nil {
		m.scheduler.Cancel(task.ID)
	}
	m.log.Forget(task.ID)

	text := fmt.Sprintf("completed %q +%dxp", res.Task.Title, res.XPAwarded)
	if res.IsLate {
		text = fmt.Sprintf("completed %q late, no XP", res.Task.Title)
	}
	if res.LevelUp {
		text += fmt.Sprintf(" (level %d!)", res.LevelAfter)
	}
	for _, badge := range res.NewBadges {
		text += fmt.Sprintf(" [%s %s]", badge.Icon, badge.Name)
	}
	m.info(text)
	m.reload()
	return m
}

func (m Model) deleteSelected() Model {
	task, ok := m.selectedTask()
	if !ok {
		return m
	}
	res, err := m.svc.DeleteTask(appContext(), task.ID)
	if err != nil {
		m.fail(err)
		return m
	}
	if m.scheduler != nil {
		m.scheduler.Cancel(task.ID)
	}
	m.log.Forget(task.ID)

	if res.XPDelta < 0 {
		m.info(fmt.Sprintf("deleted %q, %d xp returned", res.Task.Title, res.XPDelta))
	} else {
		m.info(fmt.Sprintf("deleted %q", res.Task.Title))
	}
	m.reload()
	return m
}

func (m Model) onWindowEvent(ev scheduler.WindowEvent) Model {
	title := ev.TaskID
	for _, task := range m.Tasks {
		if task.ID == ev.TaskID {
			title = task.Title
		}
	}

	switch ev.Kind {
	case scheduler.KindStart:
		m.info(fmt.Sprintf("quest started: %s", title))
	case scheduler.KindCritical:
		m.info(fmt.Sprintf("quest almost over: %s", title))
	case scheduler.KindExpiry:
		m.info(fmt.Sprintf("quest expired: %s", title))
	}
	m.recompute(m.now())
	return m
}

func (m Model) View() string {
	theme := views.ThemeFor(m.Profile.Settings.Color, m.Profile.Settings.HighContrast)

	data := views.AppData{
		Header:     fmt.Sprintf("questly | %s | lvl %d | %s %s", m.CurrentScreen, m.Profile.Level, m.Profile.CurrentRank, m.Profile.CurrentTier),
		StatusLine: m.statusLine(),
		Footer:     "keys: 1 home | 2 mentor | 3 progress | 4 profile | 5 settings | / cmd | ? help | q quit",
	}

	switch m.CurrentScreen {
	case ScreenOnboarding:
		data.Header = "questly"
		data.Footer = ""
		data.Body = views.RenderOnboardingPanel(views.OnboardingPanelData{
			Step:      m.OnboardingStep,
			NameInput: m.nameInput.View(),
		})
	case ScreenHome:
		data.Body = m.renderHome()
		data.SidePane = m.renderHomeSidePane()
	case ScreenMentor:
		data.Body = m.renderMentor()
	case ScreenProgress:
		data.Body = m.renderProgress()
	case ScreenProfile:
		data.Body = m.renderProfile()
	case ScreenSettings:
		data.Body = m.renderSettings()
	}

	if m.HelpVisible {
		data.SidePane = m.helpModel.FullHelpView(m.keys.FullHelp())
	}

	return views.RenderApp(theme, data)
}

func (m Model) statusLine() string {
	if m.Status.Text == "" {
		return ""
	}
	if m.Status.IsError {
		return "status: error: " + m.Status.Text
	}
	return "status: " + m.Status.Text
}
