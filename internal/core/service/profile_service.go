package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// ProfileService lets users read and edit their own profile.
type ProfileService struct {
	users ports.UserRepository
	files uploader
	log   zerolog.Logger
}

func NewProfileService(users ports.UserRepository, files ports.ContentStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, files: newUploader(files, log), log: log}
}

func (s *ProfileService) Me(ctx context.Context, who domain.Identity) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, who.SubjectID)
	if err != nil {
		return nil, domain.StorageFailure("find user", err)
	}
	return u, nil
}

func (s *ProfileService) Public(ctx context.Context, id string) (*domain.PublicProfile, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure("find user", err)
	}
	p := u.Public()
	return &p, nil
}

// Update changes name, email and bio. The profile image has its own
// endpoints and is ignored here.
func (s *ProfileService) Update(ctx context.Context, who domain.Identity, patch domain.UserPatch) (*domain.User, error) {
	patch.Name = domain.NonBlank(patch.Name)
	patch.Bio = trimmedPtr(patch.Bio)
	patch.ProfileImage = nil
	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if email == "" {
			return nil, domain.Invalid("email is required")
		}
		patch.Email = &email

		other, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != who.SubjectID:
			return nil, domain.ErrEmailTaken
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, domain.StorageFailure("find user", err)
		}
	}
	if patch.Name == nil && patch.Email == nil && patch.Bio == nil {
		return s.Me(ctx, who)
	}

	u, err := s.users.Update(ctx, who.SubjectID, patch)
	if err != nil {
		return nil, domain.StorageFailure("update user", err)
	}
	return u, nil
}

// UploadImage replaces the caller's profile image.
func (s *ProfileService) UploadImage(ctx context.Context, who domain.Identity, image *domain.Upload) (*domain.User, error) {
	cur, err := s.Me(ctx, who)
	if err != nil {
		return nil, err
	}

	var updated *domain.User
	err = s.files.replace(ctx, "profile.image", profileImages, image, cur.ProfileImage,
		func(ctx context.Context, path string) error {
			u, err := s.users.Update(ctx, who.SubjectID, domain.UserPatch{ProfileImage: &path})
			if err != nil {
				return domain.StorageFailure("update user", err)
			}
			updated = u
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteImage removes the caller's profile image file and clears the field.
func (s *ProfileService) DeleteImage(ctx context.Context, who domain.Identity) (*domain.User, error) {
	cur, err := s.Me(ctx, who)
	if err != nil {
		return nil, err
	}
	if cur.ProfileImage == "" {
		return cur, nil
	}
	s.files.remove(ctx, cur.ProfileImage)

	empty := ""
	u, err := s.users.Update(ctx, who.SubjectID, domain.UserPatch{ProfileImage: &empty})
	if err != nil {
		return nil, domain.StorageFailure("update user", err)
	}
	return u, nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
