// internal/api/job/store_test.go
package job

import (
	"errors"
	"testing"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(100, time.Hour)

	job := store.Create("batch")
	if job.ID == "" {
		t.Error("expected job ID")
	}
	if job.Status != StatusPending {
		t.Errorf("expected pending, got %s", job.Status)
	}

	retrieved, err := store.Get(job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved.ID != job.ID {
		t.Error("IDs don't match")
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := NewStore(100, time.Hour)

	_, err := store.Get("no-such-job")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestStore_Update(t *testing.T) {
	store := NewStore(100, time.Hour)
	job := store.Create("batch")

	err := store.Update(job.ID, func(j *Job) {
		j.Status = StatusRunning
		j.Progress = 50
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	retrieved, _ := store.Get(job.ID)
	if retrieved.Status != StatusRunning {
		t.Errorf("expected running, got %s", retrieved.Status)
	}
	if retrieved.Progress != 50 {
		t.Errorf("expected 50, got %d", retrieved.Progress)
	}
}

func TestStore_UniqueIDs(t *testing.T) {
	store := NewStore(100, time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		job := store.Create("batch")
		if seen[job.ID] {
			t.Fatalf("duplicate job ID %s", job.ID)
		}
		seen[job.ID] = true
	}
}

func TestStore_MaxSize(t *testing.T) {
	store := NewStore(2, time.Hour)

	first := store.Create("batch")
	store.Create("batch")
	store.Create("batch")

	if _, err := store.Get(first.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected oldest job evicted, got %v", err)
	}

	if len(store.List()) != 2 {
		t.Errorf("expected 2 jobs, got %d", len(store.List()))
	}
}

func TestStore_TTLEviction(t *testing.T) {
	store := NewStore(100, time.Millisecond)

	done := store.Create("batch")
	store.Update(done.ID, func(j *Job) {
		j.Status = StatusComplete
	})
	running := store.Create("batch")
	store.Update(running.ID, func(j *Job) {
		j.Status = StatusRunning
	})

	time.Sleep(5 * time.Millisecond)

	// Creation triggers the sweep.
	store.Create("batch")

	if _, err := store.Get(done.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected completed job evicted, got %v", err)
	}
	if _, err := store.Get(running.ID); err != nil {
		t.Errorf("running job should survive TTL: %v", err)
	}
}
