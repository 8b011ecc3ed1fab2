package update

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rudhh/questly/internal/commands"
	"github.com/rudhh/questly/internal/engine"
	"github.com/rudhh/questly/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.info("command palette closed")
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.fail(err)
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.svc.CreateTask(appContext(), engine.CreateTaskInput{
				Title:       a.Title,
				StartTime:   a.StartTime,
				EndTime:     a.EndTime,
				DurationMin: a.DurationMin,
				Force:       a.Force,
			})
			if errors.Is(err, engine.ErrOverlap) {
				return commands.Result{}, fmt.Errorf("%w (append ! to schedule anyway)", err)
			}
			if err != nil {
				return commands.Result{}, err
			}
			if m.scheduler != nil {
				_ = m.scheduler.ScheduleTask(task, m.now())
			}
			return commands.Result{Message: fmt.Sprintf("quest added: %s (%s-%s)", task.Title, task.StartTime, task.EndTime)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			task, ok := m.taskByRef(a.Target)
			if !ok {
				return commands.Result{}, fmt.Errorf("update: no quest matches %q", a.Target)
			}
			res, err := m.svc.CompleteTask(appContext(), task.ID)
			if err != nil {
				return commands.Result{}, err
			}
			if m.scheduler != nil {
				m.scheduler.Cancel(task.ID)
			}
			m.log.Forget(task.ID)
			if res.IsLate {
				return commands.Result{Message: fmt.Sprintf("completed %q late, no XP", res.Task.Title)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("completed %q +%dxp", res.Task.Title, res.XPAwarded)}, nil
		},
		Remove: func(a commands.RemoveArgs) (commands.Result, error) {
			task, ok := m.taskByRef(a.Target)
			if !ok {
				return commands.Result{}, fmt.Errorf("update: no quest matches %q", a.Target)
			}
			res, err := m.svc.DeleteTask(appContext(), task.ID)
			if err != nil {
				return commands.Result{}, err
			}
			if m.scheduler != nil {
				m.scheduler.Cancel(task.ID)
			}
			m.log.Forget(task.ID)
			if res.XPDelta < 0 {
				return commands.Result{Message: fmt.Sprintf("deleted %q, %d xp returned", res.Task.Title, res.XPDelta)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("deleted %q", res.Task.Title)}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			switch a.Subject {
			case "today":
				m.CurrentScreen = ScreenHome
			case "profile", "badges":
				m.CurrentScreen = ScreenProfile
			case "progress":
				m.CurrentScreen = ScreenProgress
			case "settings":
				m.CurrentScreen = ScreenSettings
			}
			return commands.Result{Message: "showing " + a.Subject}, nil
		},
		Settings: func(a commands.SettingsArgs) (commands.Result, error) {
			patch, err := settingsPatchFor(a.Key, a.Value)
			if err != nil {
				return commands.Result{}, err
			}
			profile, err := m.svc.UpdateSettings(appContext(), patch)
			if err != nil {
				return commands.Result{}, err
			}
			m.Profile = profile
			return commands.Result{Message: fmt.Sprintf("%s set to %s", a.Key, a.Value)}, nil
		},
	})
	if err != nil {
		m.fail(err)
	} else {
		m.info(res.Message)
		m.reload()
	}

	m.closePalette()
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

// taskByRef resolves a palette target against today's tasks: a full id, an id
// prefix, or a 1-based list position.
func (m Model) taskByRef(ref string) (model.Task, bool) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(m.Tasks) {
		return m.Tasks[n-1], true
	}
	for _, task := range m.Tasks {
		if task.ID == ref || strings.HasPrefix(task.ID, ref) {
			return task, true
		}
	}
	return model.Task{}, false
}

func settingsPatchFor(key, value string) (engine.SettingsPatch, error) {
	patch := engine.SettingsPatch{}
	switch key {
	case "theme":
		color := model.ThemeColor(value)
		if !color.IsValid() {
			return patch, fmt.Errorf("update: unknown theme %q", value)
		}
		patch.Color = &color
	case "contrast":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return patch, fmt.Errorf("update: contrast wants true/false")
		}
		patch.HighContrast = &v
	case "notifications":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return patch, fmt.Errorf("update: notifications wants true/false")
		}
		patch.NotificationsEnabled = &v
	case "model":
		pref := model.ChatModel(value)
		if !pref.IsValid() {
			return patch, fmt.Errorf("update: unknown model %q", value)
		}
		patch.ModelPreference = &pref
	case "ranked":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return patch, fmt.Errorf("update: ranked wants true/false")
		}
		patch.RankedMode = &v
	case "persona":
		persona := value
		patch.MentorPersonality = &persona
	default:
		return patch, fmt.Errorf("update: unknown setting %q", key)
	}
	return patch, nil
}
