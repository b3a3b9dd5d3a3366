package activity

import (
	"context"
	"testing"
	"time"

	"github.com/example/taskboard/events"
)

func TestActivityFeed(t *testing.T) {
	m := NewModule(10)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	if err := m.handleTaskCreated(ctx, events.TaskCreatedEvent{
		TaskID:    "t-1",
		Title:     "Write docs",
		Priority:  "high",
		CreatedAt: now,
	}, nil); err != nil {
		t.Fatalf("handleTaskCreated() error = %v", err)
	}
	if err := m.handleTaskUpdated(ctx, events.TaskUpdatedEvent{
		TaskID:    "t-1",
		Status:    "done",
		UpdatedAt: now.Add(time.Minute),
	}, nil); err != nil {
		t.Fatalf("handleTaskUpdated() error = %v", err)
	}
	if err := m.handleTaskDeleted(ctx, events.TaskDeletedEvent{
		TaskID:    "t-1",
		DeletedAt: now.Add(2 * time.Minute),
	}, nil); err != nil {
		t.Fatalf("handleTaskDeleted() error = %v", err)
	}

	entries := m.Recent()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Newest first.
	wantKinds := []string{"task_deleted", "task_updated", "task_created"}
	for i, kind := range wantKinds {
		if entries[i].Kind != kind {
			t.Errorf("entries[%d].Kind = %q, want %q", i, entries[i].Kind, kind)
		}
		if entries[i].TaskID != "t-1" {
			t.Errorf("entries[%d].TaskID = %q, want t-1", i, entries[i].TaskID)
		}
	}
}

func TestActivityFeedCap(t *testing.T) {
	m := NewModule(2)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		if err := m.handleTaskDeleted(ctx, events.TaskDeletedEvent{
			TaskID:    id,
			DeletedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}, nil); err != nil {
			t.Fatalf("handleTaskDeleted() error = %v", err)
		}
	}

	entries := m.Recent()
	if len(entries) != 2 {
		t.Fatalf("expected feed capped at 2 entries, got %d", len(entries))
	}
	if entries[0].TaskID != "c" || entries[1].TaskID != "b" {
		t.Errorf("oldest entry was not evicted: %+v", entries)
	}
}

func TestRecentReturnsCopy(t *testing.T) {
	m := NewModule(5)
	if err := m.handleTaskCreated(context.Background(), events.TaskCreatedEvent{
		TaskID: "t-1", Title: "x", Priority: "low", CreatedAt: time.Now(),
	}, nil); err != nil {
		t.Fatalf("handleTaskCreated() error = %v", err)
	}

	entries := m.Recent()
	entries[0].TaskID = "mutated"

	if m.Recent()[0].TaskID != "t-1" {
		t.Error("mutating the returned slice leaked into the feed")
	}
}
