package storage

import (
	"context"
	"testing"
	"time"
)

func TestLoadStateEmptyDatabase(t *testing.T) {
	repo := setupRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	st := LoadState(context.Background(), repo, now)

	if len(st.Tasks) != 0 {
		t.Fatalf("tasks = %v, want empty", st.Tasks)
	}
	if st.Profile.Level != 1 || st.Profile.CurrentRank != "Iron" || st.Profile.CurrentTier != "IV" {
		t.Fatalf("profile = %+v, want zeroed Iron IV", st.Profile)
	}
	if st.Profile.Onboarded {
		t.Fatal("fresh profile marked onboarded")
	}
	if len(st.History) != 7 {
		t.Fatalf("history len = %d, want 7", len(st.History))
	}
	for i, day := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		if st.History[i].Day != day || st.History[i].Count != 0 {
			t.Fatalf("history[%d] = %+v, want %s/0", i, st.History[i], day)
		}
	}
}

func TestLoadStateMergesPartialHistory(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.BumpHistory(ctx, "Wed"); err != nil {
		t.Fatalf("bump: %v", err)
	}
	if err := repo.BumpHistory(ctx, "Wed"); err != nil {
		t.Fatalf("bump: %v", err)
	}

	st := LoadState(ctx, repo, time.Now())

	if len(st.History) != 7 {
		t.Fatalf("history len = %d, want 7", len(st.History))
	}
	for _, e := range st.History {
		want := 0
		if e.Day == "Wed" {
			want = 2
		}
		if e.Count != want {
			t.Fatalf("count for %s = %d, want %d", e.Day, e.Count, want)
		}
	}
}

func TestLoadStateKeepsStoredProfile(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := DefaultProfile(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	p.Name = "Rudhh"
	p.XP = 250
	p.Onboarded = true
	if err := repo.SaveProfile(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	st := LoadState(ctx, repo, time.Now())
	if st.Profile.Name != "Rudhh" || st.Profile.XP != 250 || !st.Profile.Onboarded {
		t.Fatalf("profile = %+v", st.Profile)
	}
}
