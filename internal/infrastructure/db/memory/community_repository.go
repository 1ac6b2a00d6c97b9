package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]*domain.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*domain.Post)}
}

var _ ports.PostRepository = (*PostRepository)(nil)

func clonePost(p *domain.Post) *domain.Post {
	out := *p
	out.Likes = slices.Clone(p.Likes)
	if out.Likes == nil {
		out.Likes = []string{}
	}
	return &out
}

func (r *PostRepository) Create(_ context.Context, p *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = newID()
	r.posts[p.ID] = clonePost(p)
	return nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) List(_ context.Context, pg domain.Page) ([]*domain.Post, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, clonePost(p))
	}
	newestFirst(all,
		func(p *domain.Post) time.Time { return p.CreatedAt },
		func(p *domain.Post) string { return p.ID })

	pg = pg.Clamp()
	return page(all, pg.Skip(), pg.Limit), int64(len(all)), nil
}

func (r *PostRepository) Update(_ context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	p.UpdatedAt = now()
	return clonePost(p), nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *PostRepository) SetLike(_ context.Context, id, userID string, liked bool) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	has := p.LikedBy(userID)
	switch {
	case liked && !has:
		p.Likes = append(p.Likes, userID)
	case !liked && has:
		p.Likes = slices.DeleteFunc(p.Likes, func(u string) bool { return u == userID })
	}
	return clonePost(p), nil
}

type CommentRepository struct {
	mu       sync.RWMutex
	comments map[string]*domain.Comment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[string]*domain.Comment)}
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

func (r *CommentRepository) Create(_ context.Context, c *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = newID()
	stored := *c
	r.comments[c.ID] = &stored
	return nil
}

func (r *CommentRepository) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	out := *c
	return &out, nil
}

// ListByPost returns a post's comments oldest first.
func (r *CommentRepository) ListByPost(_ context.Context, postID string) ([]*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CommentRepository) Update(_ context.Context, id string, patch domain.CommentPatch) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	if patch.Content != nil {
		c.Content = *patch.Content
	}
	c.UpdatedAt = now()
	out := *c
	return &out, nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *CommentRepository) DeleteByPost(_ context.Context, postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
			n++
		}
	}
	return n, nil
}
