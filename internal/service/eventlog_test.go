package service

import (
	"context"
	"testing"
	"time"

	"vibenest/internal/models"
)

func TestEventLogList_NormalizesFilter(t *testing.T) {
	repo := &fakeEventRepo{listResp: []models.VibeEvent{{EventID: "1"}}}
	svc := NewEventLogService(repo)

	loc := time.FixedZone("UTC+5", 5*3600)
	from := time.Date(2025, 6, 1, 10, 0, 0, 0, loc)
	to := time.Date(2025, 6, 1, 12, 0, 0, 0, loc)

	got, err := svc.List(context.Background(), LogFilter{From: from, To: to, Type: " propose "})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "1" {
		t.Fatalf("unexpected result: %+v", got)
	}

	if repo.lastFrom.Location() != time.UTC || repo.lastTo.Location() != time.UTC {
		t.Fatalf("bounds not normalized to UTC: %v / %v", repo.lastFrom, repo.lastTo)
	}
	if !repo.lastFrom.Equal(from) || !repo.lastTo.Equal(to) {
		t.Fatalf("bounds changed instant: %v / %v", repo.lastFrom, repo.lastTo)
	}
	if repo.lastType != "PROPOSE" {
		t.Fatalf("type not normalized: %q", repo.lastType)
	}
}

func TestEventLogList_ZeroBoundsPassThrough(t *testing.T) {
	repo := &fakeEventRepo{}
	svc := NewEventLogService(repo)

	if _, err := svc.List(context.Background(), LogFilter{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !repo.lastFrom.IsZero() || !repo.lastTo.IsZero() || repo.lastType != "" {
		t.Fatalf("empty filter mangled: %v %v %q", repo.lastFrom, repo.lastTo, repo.lastType)
	}
}

func TestEventLogList_InvalidRange(t *testing.T) {
	svc := NewEventLogService(&fakeEventRepo{})

	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.List(context.Background(), LogFilter{From: from, To: to}); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestNewEvent_FillsIDAndTimestamp(t *testing.T) {
	e := newEvent(EventReset, "System reset to defaults", map[string]any{"k": "v"})
	if e.EventID == "" {
		t.Fatalf("missing event id")
	}
	if e.OccurredAt.IsZero() || e.OccurredAt.Location() != time.UTC {
		t.Fatalf("bad timestamp: %v", e.OccurredAt)
	}
	if e.Type != EventReset || e.Description == "" {
		t.Fatalf("unexpected event: %+v", e)
	}
}
