package root

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rudhh/questly/internal/config"
	"github.com/rudhh/questly/internal/engine"
	"github.com/rudhh/questly/internal/scheduler"
	"github.com/rudhh/questly/internal/sound"
	"github.com/rudhh/questly/internal/storage"
	"github.com/rudhh/questly/internal/update"
)

const Version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "questly",
	Short:         "Questly, a gamified time-boxed task tracker",
	Long:          "Questly turns your day into time-boxed quests: finish inside the window for XP, climb the rank ladder, and keep your mentor happy.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/questly/questly.toml)")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoneCmd(),
		newRemoveCmd(),
		newListCmd(),
		newProfileCmd(),
		newResetCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "questly:", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

// app is the service stack every command shares.
type app struct {
	svc    *engine.Service
	cfg    config.Config
	sounds sound.Notifier
	close  func()
}

func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := storage.MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var notifier sound.Notifier = sound.NoopNotifier{}
	if cfg.Sound {
		notifier = sound.DesktopNotifier{}
	}

	return &app{
		svc:    engine.NewService(repo, notifier, time.Now),
		cfg:    cfg,
		sounds: notifier,
		close:  func() { _ = repo.Close() },
	}, nil
}

func runTUI() error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.NewEngine(a.cfg.EventBuffer)
	sched.Start()
	defer sched.Stop()

	m := update.NewModel(update.Deps{
		Service:   a.svc,
		Scheduler: sched,
		Sounds:    a.sounds,
		Now:       time.Now,
	})
	for _, task := range m.Tasks {
		_ = sched.ScheduleTask(task, time.Now())
	}

	program := tea.NewProgram(m, tea.WithReportFocus())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("questly failed: %w", err)
	}
	return nil
}
