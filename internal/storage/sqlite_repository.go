package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// DefaultDBPath returns the default store location under the user's home.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".questly.db"), nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, start_time, end_time, date, is_completed, is_late, xp_value, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.StartTime, in.EndTime, in.Date,
		boolInt(in.IsCompleted), boolInt(in.IsLate), in.XPValue, mustTime(in.CreatedAt), nullTime(in.CompletedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, start_time, end_time, date, is_completed, is_late, xp_value, created_at, completed_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, start_time = ?, end_time = ?, date = ?, is_completed = ?, is_late = ?, xp_value = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, in.StartTime, in.EndTime, in.Date,
		boolInt(in.IsCompleted), boolInt(in.IsLate), in.XPValue, nullTime(in.CompletedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, title, start_time, end_time, date, is_completed, is_late, xp_value, created_at, completed_at FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Date != "" {
		clauses = append(clauses, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.Completed != nil {
		clauses = append(clauses, "is_completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY start_time ASC, created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetProfile(ctx context.Context) (Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, name, xp, rank_xp, level, streak, total_completed,
		       current_rank, current_tier, highest_rank, onboarded, tutorial_done,
		       theme_color, high_contrast, notifications_enabled, mentor_personality,
		       model_preference, ranked_mode, created_at
		FROM profile WHERE key = ?`, ProfileKey)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *SQLiteRepository) SaveProfile(ctx context.Context, in Profile) error {
	in.Key = ProfileKey
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profile (key, name, xp, rank_xp, level, streak, total_completed,
		                     current_rank, current_tier, highest_rank, onboarded, tutorial_done,
		                     theme_color, high_contrast, notifications_enabled, mentor_personality,
		                     model_preference, ranked_mode, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			xp = excluded.xp,
			rank_xp = excluded.rank_xp,
			level = excluded.level,
			streak = excluded.streak,
			total_completed = excluded.total_completed,
			current_rank = excluded.current_rank,
			current_tier = excluded.current_tier,
			highest_rank = excluded.highest_rank,
			onboarded = excluded.onboarded,
			tutorial_done = excluded.tutorial_done,
			theme_color = excluded.theme_color,
			high_contrast = excluded.high_contrast,
			notifications_enabled = excluded.notifications_enabled,
			mentor_personality = excluded.mentor_personality,
			model_preference = excluded.model_preference,
			ranked_mode = excluded.ranked_mode`,
		in.Key, in.Name, in.XP, in.RankXP, in.Level, in.Streak, in.TotalCompleted,
		in.CurrentRank, in.CurrentTier, in.HighestRank, boolInt(in.Onboarded), boolInt(in.TutorialDone),
		in.ThemeColor, boolInt(in.HighContrast), boolInt(in.NotificationsEnabled), in.MentorPersonality,
		in.ModelPreference, boolInt(in.RankedMode), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) ListBadges(ctx context.Context) ([]BadgeUnlock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT badge_id, unlocked_at FROM badges ORDER BY unlocked_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BadgeUnlock, 0)
	for rows.Next() {
		var item BadgeUnlock
		var unlocked string
		if err := rows.Scan(&item.BadgeID, &unlocked); err != nil {
			return nil, err
		}
		at, err := parseRequiredTime(unlocked)
		if err != nil {
			return nil, err
		}
		item.UnlockedAt = at
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UnlockBadge(ctx context.Context, in BadgeUnlock) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO badges (badge_id, unlocked_at) VALUES (?, ?)
		ON CONFLICT(badge_id) DO NOTHING`,
		in.BadgeID, mustTime(in.UnlockedAt),
	)
	return err
}

func (r *SQLiteRepository) ListHistory(ctx context.Context) ([]HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day, count FROM history`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HistoryEntry, 0, 7)
	for rows.Next() {
		var item HistoryEntry
		if err := rows.Scan(&item.Day, &item.Count); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) BumpHistory(ctx context.Context, day string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO history (day, count) VALUES (?, 1)
		ON CONFLICT(day) DO UPDATE SET count = count + 1`, day)
	return err
}

// Reset wipes all stored state; used by explicit logout.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	for _, table := range []string{"tasks", "badges", "history", "profile"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var completed, late int
	var created string
	var completedAt sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.StartTime, &out.EndTime, &out.Date, &completed, &late, &out.XPValue, &created, &completedAt); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	doneAt, err := parseNullableTime(completedAt)
	if err != nil {
		return Task{}, err
	}
	out.IsCompleted = completed == 1
	out.IsLate = late == 1
	out.CreatedAt = createdAt
	out.CompletedAt = doneAt
	return out, nil
}

func scanProfile(s scanner) (Profile, error) {
	var out Profile
	var onboarded, tutorial, contrast, notif, ranked int
	var created string
	if err := s.Scan(
		&out.Key, &out.Name, &out.XP, &out.RankXP, &out.Level, &out.Streak, &out.TotalCompleted,
		&out.CurrentRank, &out.CurrentTier, &out.HighestRank, &onboarded, &tutorial,
		&out.ThemeColor, &contrast, &notif, &out.MentorPersonality,
		&out.ModelPreference, &ranked, &created,
	); err != nil {
		return Profile{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Profile{}, err
	}
	out.Onboarded = onboarded == 1
	out.TutorialDone = tutorial == 1
	out.HighContrast = contrast == 1
	out.NotificationsEnabled = notif == 1
	out.RankedMode = ranked == 1
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
