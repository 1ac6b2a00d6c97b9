package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/memory"
)

func TestEventService_CreateWithoutImageBroadcasts(t *testing.T) {
	notifier := &recordingNotifier{}
	files := newMemFiles()
	svc := NewEventService(memory.NewEventRepository(), files, notifier, testLog)

	e, err := svc.Create(context.Background(), artist, domain.EventDraft{
		Title:    "Pottery Fair",
		Location: "Jaipur",
		StartsAt: time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC),
	}, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if e.ImageURL != "" || files.writes != 0 {
		t.Fatalf("expected no image to be written")
	}
	if len(notifier.broadcast) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(notifier.broadcast))
	}
	if got := notifier.broadcast[0]; got.SenderID != artist.SubjectID || got.RelatedItemID != e.ID || got.Kind != domain.NotifyEvent {
		t.Fatalf("unexpected broadcast: %+v", got)
	}
}

func TestEventService_CreateRejectsNormalUser(t *testing.T) {
	svc := NewEventService(memory.NewEventRepository(), newMemFiles(), &recordingNotifier{}, testLog)

	_, err := svc.Create(context.Background(), buyer, domain.EventDraft{Title: "x", Location: "y", StartsAt: time.Now()}, nil)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestEventService_InvalidMetadataRemovesImage(t *testing.T) {
	notifier := &recordingNotifier{}
	files := newMemFiles()
	svc := NewEventService(memory.NewEventRepository(), files, notifier, testLog)

	_, err := svc.Create(context.Background(), admin, domain.EventDraft{Title: "x"}, jpeg("e.jpg"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if files.count() != 0 {
		t.Fatalf("expected image to be removed")
	}
	if len(notifier.broadcast) != 0 {
		t.Fatalf("expected no broadcast for a failed create")
	}
}

func TestEventService_UpcomingFilter(t *testing.T) {
	svc := NewEventService(memory.NewEventRepository(), newMemFiles(), &recordingNotifier{}, testLog)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, d := range []time.Duration{-48 * time.Hour, 24 * time.Hour, 72 * time.Hour} {
		if _, err := svc.Create(ctx, artist, domain.EventDraft{Title: "e", Location: "l", StartsAt: now.Add(d)}, nil); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	items, total, err := svc.List(ctx, domain.EventFilter{After: now})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d/%d", len(items), total)
	}
	if !items[0].StartsAt.Before(items[1].StartsAt) {
		t.Fatalf("expected soonest event first")
	}
}
