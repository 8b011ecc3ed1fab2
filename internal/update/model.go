package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/rudhh/questly/internal/engine"
	"github.com/rudhh/questly/internal/mentor"
	"github.com/rudhh/questly/internal/model"
	"github.com/rudhh/questly/internal/scheduler"
	"github.com/rudhh/questly/internal/sound"
)

type Screen string

const (
	ScreenHome       Screen = "Home"
	ScreenMentor     Screen = "Mentor"
	ScreenProgress   Screen = "Progress"
	ScreenProfile    Screen = "Profile"
	ScreenSettings   Screen = "Settings"
	ScreenOnboarding Screen = "Onboarding"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type keyMap struct {
	Home     key.Binding
	Mentor   key.Binding
	Progress key.Binding
	Profile  key.Binding
	Settings key.Binding
	Palette  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Home, k.Mentor, k.Progress, k.Profile, k.Settings, k.Palette, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Mentor, k.Progress},
		{k.Profile, k.Settings},
		{k.Palette, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Home:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
		Mentor:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "mentor")),
		Progress: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "progress")),
		Profile:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "profile")),
		Settings: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "settings")),
		Palette:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type chatLine struct {
	FromUser bool
	Text     string
	Thinking string
}

// Deps wires the TUI to its collaborators.
type Deps struct {
	Service   *engine.Service
	Mentor    mentor.Client
	Scheduler *scheduler.Engine
	Sounds    sound.Notifier
	Now       func() time.Time
}

type Model struct {
	svc       *engine.Service
	mentorCli mentor.Client
	scheduler *scheduler.Engine
	sounds    sound.Notifier
	now       func() time.Time
	log       *engine.TransitionLog

	CurrentScreen Screen
	Tasks         []model.Task
	Statuses      map[string]engine.Status
	Profile       model.UserProfile
	History       []model.DailyProgress
	Cursor        int

	Palette        CommandPaletteState
	Status         StatusBar
	HelpVisible    bool
	Quitting       bool
	LastError      error
	OnboardingStep int
	SettingsCursor int

	Chat     []chatLine
	Thinking bool

	commandInput textinput.Model
	nameInput    textinput.Model
	chatInput    textinput.Model
	taskProgress progress.Model
	chatViewport viewport.Model
	mentorWait   spinner.Model
	helpModel    help.Model
	keys         keyMap
}

func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sounds == nil {
		deps.Sounds = sound.NoopNotifier{}
	}

	commandInput := textinput.New()
	commandInput.Prompt = "/"
	commandInput.CharLimit = 120

	nameInput := textinput.New()
	nameInput.Placeholder = "your name"
	nameInput.CharLimit = 40

	chatInput := textinput.New()
	chatInput.Placeholder = "ask your mentor"
	chatInput.CharLimit = 280

	wait := spinner.New()
	wait.Spinner = spinner.Dot

	m := Model{
		svc:           deps.Service,
		mentorCli:     deps.Mentor,
		scheduler:     deps.Scheduler,
		sounds:        deps.Sounds,
		now:           deps.Now,
		log:           engine.NewTransitionLog(),
		CurrentScreen: ScreenHome,
		Statuses:      make(map[string]engine.Status),
		commandInput:  commandInput,
		nameInput:     nameInput,
		chatInput:     chatInput,
		taskProgress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
		chatViewport:  viewport.New(44, 14),
		mentorWait:    wait,
		helpModel:     help.New(),
		keys:          defaultKeyMap(),
	}
	m.reload()
	if !m.Profile.Onboarded {
		m.CurrentScreen = ScreenOnboarding
		m.nameInput.Focus()
	}
	return m
}

func (m Model) today() string {
	return m.now().Format(model.DateLayout)
}

// reload pulls tasks, profile, and history from the service and recomputes
// every task status. Failures land in the status bar rather than crashing the
// screen.
func (m *Model) reload() {
	ctx := appContext()
	now := m.now()

	if profile, err := m.svc.Profile(ctx); err == nil {
		m.Profile = profile
	} else {
		m.fail(err)
	}

	tasks, err := m.svc.TasksOn(ctx, m.today())
	if err != nil {
		m.fail(err)
		return
	}
	m.Tasks = tasks
	if m.Cursor >= len(m.Tasks) {
		m.Cursor = len(m.Tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	if history, err := m.svc.History(ctx); err == nil {
		m.History = history
	}

	m.recompute(now)
}

// recompute refreshes every visible task status and forwards newly fired
// cues to the notifier. It is the per-tick and focus-regain path.
func (m *Model) recompute(now time.Time) {
	statuses := make(map[string]engine.Status, len(m.Tasks))
	for _, task := range m.Tasks {
		st := engine.ComputeStatus(task, now, m.log)
		statuses[task.ID] = st
		if m.Profile.Settings.NotificationsEnabled {
			for _, ev := range st.Events {
				m.sounds.Play(ev, task.Title)
			}
		}
	}
	m.Statuses = statuses
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}

func (m *Model) info(text string) {
	m.Status = StatusBar{Text: text, IsError: false}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Tasks) {
		return model.Task{}, false
	}
	return m.Tasks[m.Cursor], true
}

func (m Model) personaLabel() string {
	persona := m.Profile.Settings.MentorPersonality
	if persona == "" {
		persona = model.DefaultMentorPersonality
	}
	if i := strings.IndexByte(persona, ','); i > 0 {
		persona = persona[:i]
	}
	return strings.TrimSuffix(strings.TrimSpace(persona), ".")
}
