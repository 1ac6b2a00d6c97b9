package ports

import (
	"context"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, page domain.Page) ([]*domain.Post, int64, error)
	Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// SetLike adds or removes userID from the post's likes and returns the post.
	SetLike(ctx context.Context, id, userID string, liked bool) (*domain.Post, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	Update(ctx context.Context, id string, patch domain.CommentPatch) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

type CommunityService interface {
	CreatePost(ctx context.Context, who domain.Identity, draft domain.PostDraft) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context, page domain.Page) ([]*domain.Post, int64, error)
	UpdatePost(ctx context.Context, who domain.Identity, id string, patch domain.PostPatch) (*domain.Post, error)
	DeletePost(ctx context.Context, who domain.Identity, id string) error
	ToggleLike(ctx context.Context, who domain.Identity, postID string) (*domain.Post, bool, error)

	AddComment(ctx context.Context, who domain.Identity, postID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*domain.Comment, error)
	UpdateComment(ctx context.Context, who domain.Identity, id string, patch domain.CommentPatch) (*domain.Comment, error)
	DeleteComment(ctx context.Context, who domain.Identity, id string) error
}
