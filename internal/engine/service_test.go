package engine

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rudhh/questly/internal/model"
	"github.com/rudhh/questly/internal/sound"
	"github.com/rudhh/questly/internal/storage"
)

type serviceFixture struct {
	svc    *Service
	repo   *storage.SQLiteRepository
	sounds *sound.Recorder
	now    *time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "questly.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := storage.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	now := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	rec := &sound.Recorder{}
	f := &serviceFixture{repo: repo, sounds: rec, now: &now}
	f.svc = NewService(repo, rec, func() time.Time { return *f.now })
	return f
}

func (f *serviceFixture) setClock(hour, min int) {
	*f.now = time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func (f *serviceFixture) mustCreate(t *testing.T, in CreateTaskInput) model.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), in)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestServiceCreateTaskDefaults(t *testing.T) {
	f := newServiceFixture(t)

	task := f.mustCreate(t, CreateTaskInput{Title: "  write report  ", StartTime: "15:00", EndTime: "16:00"})

	if task.ID == "" {
		t.Fatal("empty id")
	}
	if task.Title != "write report" {
		t.Fatalf("title = %q, want trimmed", task.Title)
	}
	if task.Date != "2026-03-14" {
		t.Fatalf("date = %q, want today", task.Date)
	}
	if task.XPValue != model.DefaultTaskXP {
		t.Fatalf("xp = %d, want default", task.XPValue)
	}

	stored, err := f.repo.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if stored.Title != "write report" {
		t.Fatalf("stored title = %q", stored.Title)
	}
	if len(f.sounds.Events) != 1 || f.sounds.Events[0] != sound.EventAdd {
		t.Fatalf("sounds = %v, want one add", f.sounds.Events)
	}
}

func TestServiceCreateTaskDurationMode(t *testing.T) {
	f := newServiceFixture(t)

	task := f.mustCreate(t, CreateTaskInput{Title: "focus block", StartTime: "23:30", DurationMin: 45})

	if task.EndTime != "00:15" {
		t.Fatalf("endTime = %q, want 00:15 across midnight", task.EndTime)
	}
}

func TestServiceCreateTaskOverlap(t *testing.T) {
	f := newServiceFixture(t)
	f.mustCreate(t, CreateTaskInput{Title: "first", StartTime: "09:00", EndTime: "10:00"})

	_, err := f.svc.CreateTask(context.Background(), CreateTaskInput{Title: "second", StartTime: "09:30", EndTime: "10:30"})
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("err = %v, want ErrOverlap", err)
	}

	// Back-to-back windows share an endpoint and do not collide.
	f.mustCreate(t, CreateTaskInput{Title: "adjacent", StartTime: "10:00", EndTime: "11:00"})

	// Force creates despite the collision.
	f.mustCreate(t, CreateTaskInput{Title: "forced", StartTime: "09:30", EndTime: "10:30", Force: true})

	tasks, err := f.svc.TasksOn(context.Background(), "2026-03-14")
	if err != nil {
		t.Fatalf("tasks on: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(tasks))
	}
}

func TestServiceCreateTaskRejectsZeroLengthWindow(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.CreateTask(context.Background(), CreateTaskInput{Title: "noop", StartTime: "09:00", EndTime: "09:00"})
	if !errors.Is(err, model.ErrZeroLengthWindow) {
		t.Fatalf("err = %v, want ErrZeroLengthWindow", err)
	}
}

func TestServiceCompleteTaskOnTime(t *testing.T) {
	f := newServiceFixture(t)
	task := f.mustCreate(t, CreateTaskInput{Title: "ship it", StartTime: "14:00", EndTime: "15:00"})
	f.setClock(14, 30)

	res, err := f.svc.CompleteTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.XPAwarded != model.DefaultTaskXP || res.IsLate {
		t.Fatalf("awarded = %d late = %v, want 50/false", res.XPAwarded, res.IsLate)
	}
	if len(res.NewBadges) != 1 || res.NewBadges[0].ID != badgeFoundation {
		t.Fatalf("badges = %v, want foundation", res.NewBadges)
	}

	profile, err := f.svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	// Task XP plus the foundation badge bonus.
	if profile.XP != 100 {
		t.Fatalf("xp = %d, want 100", profile.XP)
	}
	if profile.TotalCompleted != 1 {
		t.Fatalf("totalCompleted = %d, want 1", profile.TotalCompleted)
	}
	if !profile.HasBadge(badgeFoundation) {
		t.Fatal("foundation badge not persisted")
	}

	history, err := f.svc.History(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	bumped := false
	for _, e := range history {
		if e.Day == "Sat" && e.Count == 1 {
			bumped = true
		}
	}
	if !bumped {
		t.Fatalf("history not bumped for Sat: %v", history)
	}
}

func TestServiceCompleteTaskLateAwardsNothing(t *testing.T) {
	f := newServiceFixture(t)
	task := f.mustCreate(t, CreateTaskInput{Title: "missed", StartTime: "09:00", EndTime: "10:00"})
	f.setClock(11, 0)

	res, err := f.svc.CompleteTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.XPAwarded != 0 || !res.IsLate {
		t.Fatalf("awarded = %d late = %v, want 0/true", res.XPAwarded, res.IsLate)
	}

	profile, err := f.svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	// Foundation still unlocks; the completion itself pays nothing.
	if profile.XP != 50 {
		t.Fatalf("xp = %d, want badge bonus only", profile.XP)
	}
	if profile.TotalCompleted != 1 {
		t.Fatalf("totalCompleted = %d, want 1", profile.TotalCompleted)
	}
}

func TestServiceCompleteTaskTwice(t *testing.T) {
	f := newServiceFixture(t)
	task := f.mustCreate(t, CreateTaskInput{Title: "once", StartTime: "14:00", EndTime: "15:00"})

	if _, err := f.svc.CompleteTask(context.Background(), task.ID); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	_, err := f.svc.CompleteTask(context.Background(), task.ID)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err = %v, want ErrAlreadyCompleted", err)
	}
}

func TestServiceDeleteTaskReversesOnTimeAward(t *testing.T) {
	f := newServiceFixture(t)
	task := f.mustCreate(t, CreateTaskInput{Title: "undo me", StartTime: "14:00", EndTime: "15:00"})
	if _, err := f.svc.CompleteTask(context.Background(), task.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	res, err := f.svc.DeleteTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.XPDelta != -model.DefaultTaskXP {
		t.Fatalf("delta = %d, want -50", res.XPDelta)
	}

	profile, err := f.svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	// Only the badge bonus remains; the completion count never reverses.
	if profile.XP != 50 {
		t.Fatalf("xp = %d, want 50", profile.XP)
	}
	if profile.TotalCompleted != 1 {
		t.Fatalf("totalCompleted = %d, want 1 after deletion", profile.TotalCompleted)
	}

	if _, err := f.repo.GetTask(context.Background(), task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestServiceDeleteIncompleteTaskKeepsXP(t *testing.T) {
	f := newServiceFixture(t)
	task := f.mustCreate(t, CreateTaskInput{Title: "never started", StartTime: "14:00", EndTime: "15:00"})

	res, err := f.svc.DeleteTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.XPDelta != 0 {
		t.Fatalf("delta = %d, want 0", res.XPDelta)
	}
}

func TestServiceOnboardAndSettings(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.UpdateSettings(context.Background(), SettingsPatch{})
	if !errors.Is(err, ErrNotOnboarded) {
		t.Fatalf("err = %v, want ErrNotOnboarded", err)
	}

	profile, err := f.svc.Onboard(context.Background(), "Rudhh")
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if !profile.Onboarded || profile.Name != "Rudhh" {
		t.Fatalf("profile = %+v", profile)
	}

	if _, err := f.svc.Onboard(context.Background(), "again"); err == nil {
		t.Fatal("second onboard succeeded")
	}

	color := model.ThemeRose
	updated, err := f.svc.UpdateSettings(context.Background(), SettingsPatch{Color: &color})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.Settings.Color != model.ThemeRose {
		t.Fatalf("color = %s", updated.Settings.Color)
	}

	reloaded, err := f.svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if reloaded.Settings.Color != model.ThemeRose {
		t.Fatalf("persisted color = %s", reloaded.Settings.Color)
	}
}

func TestServiceActiveTasksExcludesCompleted(t *testing.T) {
	f := newServiceFixture(t)
	done := f.mustCreate(t, CreateTaskInput{Title: "done", StartTime: "14:00", EndTime: "15:00"})
	f.mustCreate(t, CreateTaskInput{Title: "open", StartTime: "16:00", EndTime: "17:00"})
	if _, err := f.svc.CompleteTask(context.Background(), done.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	active, err := f.svc.ActiveTasks(context.Background())
	if err != nil {
		t.Fatalf("active tasks: %v", err)
	}
	if len(active) != 1 || active[0].Title != "open" {
		t.Fatalf("active = %+v, want only the open task", active)
	}
}

func TestServiceReset(t *testing.T) {
	f := newServiceFixture(t)
	task := f.mustCreate(t, CreateTaskInput{Title: "gone", StartTime: "14:00", EndTime: "15:00"})
	if _, err := f.svc.Onboard(context.Background(), "Rudhh"); err != nil {
		t.Fatalf("onboard: %v", err)
	}

	if err := f.svc.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := f.repo.GetTask(context.Background(), task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("task survived reset: %v", err)
	}
	profile, err := f.svc.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Onboarded {
		t.Fatal("profile survived reset")
	}
}
