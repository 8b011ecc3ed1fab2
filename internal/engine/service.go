package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rudhh/questly/internal/model"
	"github.com/rudhh/questly/internal/sound"
	"github.com/rudhh/questly/internal/storage"
)

var (
	ErrOverlap          = errors.New("engine: task window overlaps an existing task")
	ErrAlreadyCompleted = errors.New("engine: task is already completed")
	ErrNotOnboarded     = errors.New("engine: profile has not been onboarded")
)

// Service orchestrates the scheduling and reward flows over storage. All
// mutations to a given profile/task set funnel through one Service instance;
// the host is single-threaded, which preserves the monotonicity invariants.
type Service struct {
	repo   storage.Repository
	sounds sound.Notifier
	now    func() time.Time
}

func NewService(repo storage.Repository, sounds sound.Notifier, now func() time.Time) *Service {
	if sounds == nil {
		sounds = sound.NoopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, sounds: sounds, now: now}
}

type CreateTaskInput struct {
	Title     string
	StartTime string
	EndTime   string
	// DurationMin derives EndTime from StartTime when EndTime is empty,
	// wrapping across midnight.
	DurationMin int
	// Date defaults to today when empty.
	Date string
	// Force bypasses the overlap warning after the user confirmed it.
	Force bool
}

func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (model.Task, error) {
	now := s.now()

	endTime := in.EndTime
	if endTime == "" && in.DurationMin > 0 {
		start, err := model.ParseClock(in.StartTime)
		if err != nil {
			return model.Task{}, err
		}
		endTime = start.AddMinutes(in.DurationMin).String()
	}

	date := in.Date
	if date == "" {
		date = now.Format(model.DateLayout)
	}

	task := model.Task{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		StartTime: in.StartTime,
		EndTime:   endTime,
		Date:      date,
		XPValue:   model.DefaultTaskXP,
		CreatedAt: now,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	if !in.Force {
		overlap, err := s.overlapsExisting(ctx, task)
		if err != nil {
			return model.Task{}, err
		}
		if overlap {
			return model.Task{}, ErrOverlap
		}
	}

	if err := s.repo.CreateTask(ctx, taskToRow(task)); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.sounds.Play(sound.EventAdd, task.Title)
	return task, nil
}

func (s *Service) overlapsExisting(ctx context.Context, task model.Task) (bool, error) {
	candidate, err := WindowOf(task.StartTime, task.EndTime)
	if err != nil {
		return false, err
	}
	rows, err := s.repo.ListTasks(ctx, storage.TaskListFilter{Date: task.Date})
	if err != nil {
		return false, fmt.Errorf("list tasks: %w", err)
	}
	windows := make([]Window, 0, len(rows))
	for _, row := range rows {
		w, err := WindowOf(row.StartTime, row.EndTime)
		if err != nil {
			continue // malformed rows cannot block creation
		}
		windows = append(windows, w)
	}
	return HasOverlap(candidate, windows), nil
}

type CompleteResult struct {
	Task        model.Task
	XPAwarded   int
	IsLate      bool
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	NewBadges   []model.Badge
}

// CompleteTask marks a task done exactly once. Completion past the resolved
// end instant is accepted but awards zero XP; it still counts toward the
// finished-task total.
func (s *Service) CompleteTask(ctx context.Context, id string) (CompleteResult, error) {
	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return CompleteResult{}, fmt.Errorf("get task: %w", err)
	}
	task := taskFromRow(row)
	if task.IsCompleted {
		return CompleteResult{}, fmt.Errorf("%w: %s", ErrAlreadyCompleted, id)
	}

	now := s.now()
	isLate := false
	if _, end, werr := task.Window(now); werr == nil {
		isLate = now.After(end)
	}

	xp := task.XPValue
	if isLate {
		xp = 0
	}

	task.IsCompleted = true
	task.IsLate = isLate
	task.CompletedAt = &now
	if err := s.repo.UpdateTask(ctx, taskToRow(task)); err != nil {
		return CompleteResult{}, fmt.Errorf("update task: %w", err)
	}

	profile, err := s.loadProfile(ctx, now)
	if err != nil {
		return CompleteResult{}, err
	}

	reward := ApplyDelta(&profile, xp, DeltaCompletion)
	s.dispatch(reward.Events, task.Title)

	newBadges := s.unlockBadges(ctx, &profile, now)

	if err := s.saveProfile(ctx, profile); err != nil {
		return CompleteResult{}, err
	}
	if err := s.repo.BumpHistory(ctx, model.WeekdayAbbrev(now)); err != nil {
		return CompleteResult{}, fmt.Errorf("bump history: %w", err)
	}

	return CompleteResult{
		Task:        task,
		XPAwarded:   xp,
		IsLate:      isLate,
		LevelBefore: reward.LevelBefore,
		LevelAfter:  reward.LevelAfter,
		LevelUp:     reward.LevelUp,
		NewBadges:   newBadges,
	}, nil
}

// unlockBadges persists any newly earned badges and applies their reward XP
// as bonus deltas, which never bump the completion counter.
func (s *Service) unlockBadges(ctx context.Context, profile *model.UserProfile, now time.Time) []model.Badge {
	earned := EvaluateBadges(*profile, now)
	for _, badge := range earned {
		if err := s.repo.UnlockBadge(ctx, storage.BadgeUnlock{BadgeID: badge.ID, UnlockedAt: now}); err != nil {
			continue
		}
		profile.Badges = append(profile.Badges, badge.ID)
		bonus := ApplyDelta(profile, badge.RewardXP, DeltaBonus)
		s.dispatch(bonus.Events, badge.Name)
		s.sounds.Play(sound.EventBadge, badge.Name)
	}
	return earned
}

type DeleteResult struct {
	Task      model.Task
	XPDelta   int
	LevelLost bool
}

// DeleteTask removes a task. Deleting a task that was completed on time takes
// back the original award; the finished-task total is never decremented.
func (s *Service) DeleteTask(ctx context.Context, id string) (DeleteResult, error) {
	row, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("get task: %w", err)
	}
	task := taskFromRow(row)

	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return DeleteResult{}, fmt.Errorf("delete task: %w", err)
	}

	delta := 0
	if task.IsCompleted && !task.IsLate {
		delta = -task.XPValue
	}

	now := s.now()
	profile, err := s.loadProfile(ctx, now)
	if err != nil {
		return DeleteResult{}, err
	}

	reward := ApplyDelta(&profile, delta, DeltaDeletion)
	s.dispatch(reward.Events, task.Title)

	if err := s.saveProfile(ctx, profile); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Task: task, XPDelta: delta, LevelLost: reward.LevelAfter < reward.LevelBefore}, nil
}

// TasksOn returns the tasks scheduled for a calendar day, ordered by start.
func (s *Service) TasksOn(ctx context.Context, date string) ([]model.Task, error) {
	rows, err := s.repo.ListTasks(ctx, storage.TaskListFilter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskFromRow(row))
	}
	return out, nil
}

// ActiveTasks returns today's uncompleted tasks, the snapshot the mentor
// receives as conversation context.
func (s *Service) ActiveTasks(ctx context.Context) ([]model.Task, error) {
	now := s.now()
	notDone := false
	rows, err := s.repo.ListTasks(ctx, storage.TaskListFilter{
		Date:      now.Format(model.DateLayout),
		Completed: &notDone,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskFromRow(row))
	}
	return out, nil
}

// Onboard creates the initial profile. It is a no-op error if a profile
// already finished onboarding.
func (s *Service) Onboard(ctx context.Context, name string) (model.UserProfile, error) {
	now := s.now()
	if existing, err := s.repo.GetProfile(ctx); err == nil && existing.Onboarded {
		return profileFromRow(existing, nil), errors.New("engine: profile already onboarded")
	}
	profile := Onboard(name, now)
	if err := profile.Validate(); err != nil {
		return model.UserProfile{}, err
	}
	if err := s.saveProfile(ctx, profile); err != nil {
		return model.UserProfile{}, err
	}
	return profile, nil
}

// Profile returns the stored profile, substituting the zeroed default when
// nothing (or nothing readable) is stored.
func (s *Service) Profile(ctx context.Context) (model.UserProfile, error) {
	now := s.now()
	return s.loadProfile(ctx, now)
}

// UpdateSettings merges a partial settings change into the profile.
func (s *Service) UpdateSettings(ctx context.Context, patch SettingsPatch) (model.UserProfile, error) {
	now := s.now()
	profile, err := s.loadProfile(ctx, now)
	if err != nil {
		return model.UserProfile{}, err
	}
	if !profile.Onboarded {
		return model.UserProfile{}, ErrNotOnboarded
	}
	profile = ApplySettings(profile, patch)
	if err := profile.Settings.Validate(); err != nil {
		return model.UserProfile{}, err
	}
	if err := s.saveProfile(ctx, profile); err != nil {
		return model.UserProfile{}, err
	}
	return profile, nil
}

// MarkTutorialDone flips the one-way tutorial flag.
func (s *Service) MarkTutorialDone(ctx context.Context) error {
	profile, err := s.loadProfile(ctx, s.now())
	if err != nil {
		return err
	}
	profile.TutorialDone = true
	return s.saveProfile(ctx, profile)
}

// History returns the seven weekday buckets, zero-filled.
func (s *Service) History(ctx context.Context) ([]model.DailyProgress, error) {
	st := storage.LoadState(ctx, s.repo, s.now())
	out := make([]model.DailyProgress, 0, len(st.History))
	for _, e := range st.History {
		out = append(out, model.DailyProgress{Day: e.Day, Count: e.Count})
	}
	return out, nil
}

// Reset wipes all stored state, returning the app to the onboarding gate.
func (s *Service) Reset(ctx context.Context) error {
	return s.repo.Reset(ctx)
}

func (s *Service) dispatch(events []sound.Event, detail string) {
	for _, ev := range events {
		s.sounds.Play(ev, detail)
	}
}

func (s *Service) loadProfile(ctx context.Context, now time.Time) (model.UserProfile, error) {
	row, err := s.repo.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return profileFromRow(storage.DefaultProfile(now), nil), nil
		}
		return model.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	unlocks, err := s.repo.ListBadges(ctx)
	if err != nil {
		unlocks = nil
	}
	return profileFromRow(row, unlocks), nil
}

func (s *Service) saveProfile(ctx context.Context, p model.UserProfile) error {
	if err := s.repo.SaveProfile(ctx, profileToRow(p)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func taskToRow(t model.Task) storage.Task {
	return storage.Task{
		ID:          t.ID,
		Title:       t.Title,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		Date:        t.Date,
		IsCompleted: t.IsCompleted,
		IsLate:      t.IsLate,
		XPValue:     t.XPValue,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func taskFromRow(row storage.Task) model.Task {
	return model.Task{
		ID:          row.ID,
		Title:       row.Title,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		Date:        row.Date,
		IsCompleted: row.IsCompleted,
		IsLate:      row.IsLate,
		XPValue:     row.XPValue,
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
	}
}

func profileToRow(p model.UserProfile) storage.Profile {
	return storage.Profile{
		Key:                  storage.ProfileKey,
		Name:                 p.Name,
		XP:                   p.XP,
		RankXP:               p.RankXP,
		Level:                p.Level,
		Streak:               p.Streak,
		TotalCompleted:       p.TotalCompleted,
		CurrentRank:          string(p.CurrentRank),
		CurrentTier:          string(p.CurrentTier),
		HighestRank:          p.HighestRank,
		Onboarded:            p.Onboarded,
		TutorialDone:         p.TutorialDone,
		ThemeColor:           string(p.Settings.Color),
		HighContrast:         p.Settings.HighContrast,
		NotificationsEnabled: p.Settings.NotificationsEnabled,
		MentorPersonality:    p.Settings.MentorPersonality,
		ModelPreference:      string(p.Settings.ModelPreference),
		RankedMode:           p.Settings.RankedMode,
		CreatedAt:            p.CreatedAt,
	}
}

func profileFromRow(row storage.Profile, unlocks []storage.BadgeUnlock) model.UserProfile {
	badges := make([]string, 0, len(unlocks))
	for _, u := range unlocks {
		badges = append(badges, u.BadgeID)
	}
	p := model.UserProfile{
		Name:           row.Name,
		XP:             row.XP,
		RankXP:         row.RankXP,
		Level:          row.Level,
		Streak:         row.Streak,
		TotalCompleted: row.TotalCompleted,
		CurrentRank:    model.Rank(row.CurrentRank),
		CurrentTier:    model.Tier(row.CurrentTier),
		HighestRank:    row.HighestRank,
		Badges:         badges,
		Onboarded:      row.Onboarded,
		TutorialDone:   row.TutorialDone,
		Settings: model.Settings{
			Color:                model.ThemeColor(row.ThemeColor),
			HighContrast:         row.HighContrast,
			NotificationsEnabled: row.NotificationsEnabled,
			MentorPersonality:    row.MentorPersonality,
			ModelPreference:      model.ChatModel(row.ModelPreference),
			RankedMode:           row.RankedMode,
		},
		CreatedAt: row.CreatedAt,
	}
	// Rank/tier is derived truth; the stored pair is only a display cache.
	p.CurrentRank, p.CurrentTier = RankForXP(p.RankXP)
	return p
}
