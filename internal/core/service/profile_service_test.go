package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/memory"
)

func TestProfileService_UpdateAndImage(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	files := newMemFiles()
	svc := NewProfileService(users, files, testLog)

	me, _ := users.Create(ctx, &domain.User{Name: "Me", Email: "me@example.com"})
	_, _ = users.Create(ctx, &domain.User{Name: "Other", Email: "other@example.com"})
	who := domain.Identity{SubjectID: me.ID, Role: domain.RoleNormalUser}

	taken := "OTHER@example.com"
	if _, err := svc.Update(ctx, who, domain.UserPatch{Email: &taken}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}

	bio := "weaver"
	updated, err := svc.Update(ctx, who, domain.UserPatch{Bio: &bio})
	if err != nil || updated.Bio != bio {
		t.Fatalf("expected bio update, got %+v err=%v", updated, err)
	}

	withImage, err := svc.UploadImage(ctx, who, jpeg("me.png"))
	if err != nil {
		t.Fatalf("UploadImage returned error: %v", err)
	}
	if !regexp.MustCompile(`^/uploads/profile/profile-\d+-\d+\.png$`).MatchString(withImage.ProfileImage) {
		t.Fatalf("unexpected profile image path %q", withImage.ProfileImage)
	}

	cleared, err := svc.DeleteImage(ctx, who)
	if err != nil {
		t.Fatalf("DeleteImage returned error: %v", err)
	}
	if cleared.ProfileImage != "" || files.count() != 0 {
		t.Fatalf("expected image to be removed")
	}

	pub, err := svc.Public(ctx, me.ID)
	if err != nil || pub.Name != "Me" {
		t.Fatalf("unexpected public profile %+v err=%v", pub, err)
	}
}
