package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// CommunityService manages posts, likes and comments.
type CommunityService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	ownPosts ownedStore[*domain.Post, domain.PostPatch]
	ownComms ownedStore[*domain.Comment, domain.CommentPatch]
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewCommunityService(posts ports.PostRepository, comments ports.CommentRepository, notifier ports.Notifier, log zerolog.Logger) *CommunityService {
	var noFiles uploader
	return &CommunityService{
		posts:    posts,
		comments: comments,
		ownPosts: newOwnedStore[*domain.Post, domain.PostPatch]("post", posts, noFiles, log),
		ownComms: newOwnedStore[*domain.Comment, domain.CommentPatch]("comment", comments, noFiles, log),
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *CommunityService) CreatePost(ctx context.Context, who domain.Identity, draft domain.PostDraft) (*domain.Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &domain.Post{
		AuthorID:  who.SubjectID,
		Title:     strings.TrimSpace(draft.Title),
		Content:   strings.TrimSpace(draft.Content),
		Likes:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, domain.StorageFailure("create post", err)
	}
	s.log.Info().Str("post_id", p.ID).Str("author_id", who.SubjectID).Msg("post created")
	return p, nil
}

func (s *CommunityService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, domain.StorageFailure("find post", err)
	}
	return p, nil
}

func (s *CommunityService) ListPosts(ctx context.Context, page domain.Page) ([]*domain.Post, int64, error) {
	items, total, err := s.posts.List(ctx, page.Clamp())
	if err != nil {
		return nil, 0, domain.StorageFailure("list posts", err)
	}
	return items, total, nil
}

func (s *CommunityService) UpdatePost(ctx context.Context, who domain.Identity, id string, patch domain.PostPatch) (*domain.Post, error) {
	return s.ownPosts.update(ctx, id, who, patch.Normalize())
}

// DeletePost removes the post and then its comments. Comments left behind by
// a failed cascade are unreachable and only logged.
func (s *CommunityService) DeletePost(ctx context.Context, who domain.Identity, id string) error {
	if err := s.ownPosts.delete(ctx, id, who); err != nil {
		return err
	}
	n, err := s.comments.DeleteByPost(context.WithoutCancel(ctx), id)
	if err != nil {
		s.log.Warn().Err(err).Str("post_id", id).Msg("failed to delete comments of deleted post")
		return nil
	}
	s.log.Debug().Str("post_id", id).Int64("comments", n).Msg("comments removed with post")
	return nil
}

// ToggleLike likes the post if the caller has not yet, otherwise unlikes it.
// It reports the resulting state.
func (s *CommunityService) ToggleLike(ctx context.Context, who domain.Identity, postID string) (*domain.Post, bool, error) {
	cur, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, false, domain.StorageFailure("find post", err)
	}
	liked := !cur.LikedBy(who.SubjectID)
	p, err := s.posts.SetLike(ctx, postID, who.SubjectID, liked)
	if err != nil {
		return nil, false, domain.StorageFailure("like post", err)
	}
	if liked {
		s.notifier.Notify(ctx, domain.Notice{
			Kind:            domain.NotifyLike,
			RecipientID:     p.AuthorID,
			SenderID:        who.SubjectID,
			Message:         fmt.Sprintf("Someone liked your post %q", p.Title),
			Link:            "/posts/" + p.ID,
			RelatedItemID:   p.ID,
			RelatedItemKind: "post",
		})
	}
	return p, liked, nil
}

func (s *CommunityService) AddComment(ctx context.Context, who domain.Identity, postID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.Invalid("content is required")
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, domain.StorageFailure("find post", err)
	}

	now := s.now().UTC()
	c := &domain.Comment{
		PostID:    post.ID,
		AuthorID:  who.SubjectID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, domain.StorageFailure("create comment", err)
	}

	s.notifier.Notify(ctx, domain.Notice{
		Kind:            domain.NotifyComment,
		RecipientID:     post.AuthorID,
		SenderID:        who.SubjectID,
		Message:         fmt.Sprintf("New comment on your post %q", post.Title),
		Link:            "/posts/" + post.ID,
		RelatedItemID:   post.ID,
		RelatedItemKind: "post",
	})
	return c, nil
}

func (s *CommunityService) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, domain.StorageFailure("find post", err)
	}
	items, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, domain.StorageFailure("list comments", err)
	}
	return items, nil
}

func (s *CommunityService) UpdateComment(ctx context.Context, who domain.Identity, id string, patch domain.CommentPatch) (*domain.Comment, error) {
	return s.ownComms.update(ctx, id, who, patch.Normalize())
}

func (s *CommunityService) DeleteComment(ctx context.Context, who domain.Identity, id string) error {
	return s.ownComms.delete(ctx, id, who)
}
