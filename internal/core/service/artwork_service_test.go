package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/memory"
)

var artworkPath = regexp.MustCompile(`^/uploads/artwork/artwork-\d+-\d+\.jpg$`)

func newArtworks(t *testing.T) (*ArtworkService, *failingArtworks, *memFiles) {
	t.Helper()
	repo := &failingArtworks{ArtworkRepository: memory.NewArtworkRepository()}
	files := newMemFiles()
	return NewArtworkService(repo, files, testLog), repo, files
}

func validDraft() domain.ArtworkDraft {
	return domain.ArtworkDraft{Title: "Madhubani Fish", Price: "1200", Category: "painting", Quantity: 3}
}

func TestArtworkService_Create_Success(t *testing.T) {
	svc, _, files := newArtworks(t)

	a, err := svc.Create(context.Background(), artist, validDraft(), jpeg("Fish.JPG"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !artworkPath.MatchString(a.ImageURL) {
		t.Fatalf("unexpected image path %q", a.ImageURL)
	}
	if a.ArtistID != artist.SubjectID {
		t.Fatalf("expected artist %s, got %s", artist.SubjectID, a.ArtistID)
	}
	if ok, _ := files.Exists(context.Background(), a.ImageURL); !ok {
		t.Fatalf("expected image to be stored")
	}
}

func TestArtworkService_Create_MissingMetadataRemovesFile(t *testing.T) {
	svc, _, files := newArtworks(t)

	draft := validDraft()
	draft.Title = " "
	_, err := svc.Create(context.Background(), artist, draft, jpeg("fish.jpg"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "title") {
		t.Fatalf("expected error to name the missing field, got %q", err)
	}
	if files.writes != 1 {
		t.Fatalf("expected the file to be written before metadata checks, writes=%d", files.writes)
	}
	if n := files.count(); n != 0 {
		t.Fatalf("expected written file to be removed, %d left", n)
	}
}

func TestArtworkService_Create_PersistFailureRemovesFile(t *testing.T) {
	svc, repo, files := newArtworks(t)
	repo.createErr = errDiskFull

	_, err := svc.Create(context.Background(), artist, validDraft(), jpeg("fish.jpg"))
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if n := files.count(); n != 0 {
		t.Fatalf("expected written file to be removed, %d left", n)
	}
}

func TestArtworkService_Create_RejectsBeforeWriting(t *testing.T) {
	cases := map[string]*domain.Upload{
		"no image":  nil,
		"pdf":       {Filename: "a.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("x")},
		"too large": {Filename: "a.png", ContentType: "image/png", Size: 11 << 20, Body: strings.NewReader("x")},
	}
	for name, up := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _, files := newArtworks(t)
			if _, err := svc.Create(context.Background(), artist, validDraft(), up); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if files.writes != 0 {
				t.Fatalf("expected no write, got %d", files.writes)
			}
		})
	}
}

func TestArtworkService_Create_RequiresArtist(t *testing.T) {
	svc, _, files := newArtworks(t)

	if _, err := svc.Create(context.Background(), buyer, validDraft(), jpeg("a.jpg")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if files.writes != 0 {
		t.Fatalf("expected no write, got %d", files.writes)
	}
}

func TestArtworkService_Update_Ownership(t *testing.T) {
	svc, _, _ := newArtworks(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, artist, validDraft(), jpeg("a.jpg"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	title := "Stolen"
	if _, err := svc.Update(ctx, artist2, a.ID, domain.ArtworkPatch{Title: &title}, nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	title = "Renamed by admin"
	updated, err := svc.Update(ctx, admin, a.ID, domain.ArtworkPatch{Title: &title}, nil)
	if err != nil {
		t.Fatalf("admin update returned error: %v", err)
	}
	if updated.Title != title || updated.ArtistID != artist.SubjectID {
		t.Fatalf("unexpected artwork after admin update: %+v", updated)
	}
}

func TestArtworkService_Update_OwnershipBeforeValidation(t *testing.T) {
	svc, _, _ := newArtworks(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, artist, validDraft(), jpeg("a.jpg"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	negative := -1
	if _, err := svc.Update(ctx, artist2, a.ID, domain.ArtworkPatch{Quantity: &negative}, nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	if _, err := svc.Update(ctx, artist2, a.ID, domain.ArtworkPatch{Quantity: &negative}, jpeg("b.jpg")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner with image, got %v", err)
	}
	if _, err := svc.Update(ctx, artist, a.ID, domain.ArtworkPatch{Quantity: &negative}, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for owner, got %v", err)
	}
}

func TestArtworkService_Update_ReplacesImage(t *testing.T) {
	svc, _, files := newArtworks(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, artist, validDraft(), jpeg("a.jpg"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.Update(ctx, artist, a.ID, domain.ArtworkPatch{}, jpeg("b.jpg"))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ImageURL == a.ImageURL {
		t.Fatalf("expected a new image path")
	}
	if ok, _ := files.Exists(ctx, a.ImageURL); ok {
		t.Fatalf("expected old image to be deleted")
	}
	if ok, _ := files.Exists(ctx, updated.ImageURL); !ok {
		t.Fatalf("expected new image to be stored")
	}
}

func TestArtworkService_Delete(t *testing.T) {
	svc, _, files := newArtworks(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, artist, validDraft(), jpeg("a.jpg"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(ctx, artist2, a.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, admin, a.ID); err != nil {
		t.Fatalf("admin delete returned error: %v", err)
	}
	if n := files.count(); n != 0 {
		t.Fatalf("expected image to be deleted, %d left", n)
	}
	if err := svc.Delete(ctx, admin, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestArtworkService_Delete_ToleratesMissingFile(t *testing.T) {
	svc, _, files := newArtworks(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, artist, validDraft(), jpeg("a.jpg"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	_ = files.Delete(ctx, a.ImageURL)

	if err := svc.Delete(ctx, artist, a.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}
