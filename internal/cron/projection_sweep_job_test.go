package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/rentable/rentable-backend/internal/inventory"
	"github.com/rentable/rentable-backend/pkg/logger"
)

type fakeItemSweeper struct {
	result inventory.BulkResult
	err    error
	calls  int
}

func (f *fakeItemSweeper) ProjectPending(context.Context) (inventory.BulkResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeWindowSweeper struct {
	synced int
	err    error
	calls  int
}

func (f *fakeWindowSweeper) ProjectPending(context.Context) (int, error) {
	f.calls++
	return f.synced, f.err
}

func newSweepJob(t *testing.T, items *fakeItemSweeper, windows *fakeWindowSweeper) Job {
	t.Helper()
	job, err := NewProjectionSweepJob(ProjectionSweepJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Items:   items,
		Windows: windows,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	return job
}

func TestProjectionSweepJobRunsBothSweeps(t *testing.T) {
	items := &fakeItemSweeper{result: inventory.BulkResult{Synced: 2}}
	windows := &fakeWindowSweeper{synced: 1}
	job := newSweepJob(t, items, windows)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if items.calls != 1 || windows.calls != 1 {
		t.Fatalf("expected one call each, got items=%d windows=%d", items.calls, windows.calls)
	}
}

func TestProjectionSweepJobItemFailureStillSweepsWindows(t *testing.T) {
	items := &fakeItemSweeper{err: errors.New("engine down")}
	windows := &fakeWindowSweeper{}
	job := newSweepJob(t, items, windows)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if windows.calls != 1 {
		t.Fatalf("expected window sweep despite item failure, got %d calls", windows.calls)
	}
}

func TestProjectionSweepJobRequiresProjectors(t *testing.T) {
	_, err := NewProjectionSweepJob(ProjectionSweepJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	if err == nil {
		t.Fatal("expected error for missing projectors")
	}
}
