package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// patch is a partial update whose nil fields are left untouched.
type patch interface {
	IsEmpty() bool
}

// ownedRepository is the slice of a resource repository the ownership
// checks need. The artwork, event, post and comment repositories satisfy it.
type ownedRepository[T domain.Owned, P patch] interface {
	FindByID(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, id string, p P) (T, error)
	Delete(ctx context.Context, id string) error
}

// ownedStore guards mutations of one resource kind: load by id, then require
// the caller to be the owner or an admin, then mutate.
type ownedStore[T domain.Owned, P patch] struct {
	kind  string
	repo  ownedRepository[T, P]
	files uploader
	log   zerolog.Logger
}

func newOwnedStore[T domain.Owned, P patch](kind string, repo ownedRepository[T, P], files uploader, log zerolog.Logger) ownedStore[T, P] {
	return ownedStore[T, P]{kind: kind, repo: repo, files: files, log: log}
}

// load returns the resource if it exists and who may modify it. Existence is
// checked first; the not-found and forbidden errors carry no resource data.
func (s ownedStore[T, P]) load(ctx context.Context, id string, who domain.Identity) (T, error) {
	var zero T
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return zero, domain.StorageFailure("find "+s.kind, err)
	}
	if !who.CanModify(res.Owner()) {
		s.log.Warn().
			Str("kind", s.kind).
			Str("resource_id", id).
			Str("subject_id", who.SubjectID).
			Msg("ownership check failed")
		return zero, domain.ErrForbidden
	}
	return res, nil
}

// update applies the present fields of p. An empty patch returns the
// resource unchanged.
func (s ownedStore[T, P]) update(ctx context.Context, id string, who domain.Identity, p P) (T, error) {
	cur, err := s.load(ctx, id, who)
	if err != nil {
		return cur, err
	}
	if p.IsEmpty() {
		return cur, nil
	}
	res, err := s.repo.Update(ctx, id, p)
	if err != nil {
		var zero T
		return zero, domain.StorageFailure("update "+s.kind, err)
	}
	return res, nil
}

// delete removes the attached file (a missing file is fine) and then the
// record. A second delete of the same id fails with not-found.
func (s ownedStore[T, P]) delete(ctx context.Context, id string, who domain.Identity) error {
	res, err := s.load(ctx, id, who)
	if err != nil {
		return err
	}
	s.files.remove(ctx, res.Attachment())
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.StorageFailure("delete "+s.kind, err)
	}
	s.log.Info().Str("kind", s.kind).Str("resource_id", id).Str("subject_id", who.SubjectID).Msg("deleted")
	return nil
}
