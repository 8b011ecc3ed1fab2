package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// ProfileKey identifies the single local profile row.
const ProfileKey = "local_user"

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	GetProfile(ctx context.Context) (Profile, error)
	SaveProfile(ctx context.Context, in Profile) error

	ListBadges(ctx context.Context) ([]BadgeUnlock, error)
	UnlockBadge(ctx context.Context, in BadgeUnlock) error

	ListHistory(ctx context.Context) ([]HistoryEntry, error)
	BumpHistory(ctx context.Context, day string) error

	Reset(ctx context.Context) error
}
