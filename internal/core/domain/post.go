package domain

import (
	"strings"
	"time"
)

// Post is a community discussion thread.
type Post struct {
	ID        string    `json:"id" bson:"-"`
	AuthorID  string    `json:"authorId" bson:"author_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Likes     []string  `json:"likes" bson:"likes"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

func (p *Post) Owner() string      { return p.AuthorID }
func (p *Post) Attachment() string { return "" }

// LikedBy reports whether userID has liked the post.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

type PostDraft struct {
	Title   string
	Content string
}

func (d PostDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		return Invalid("title and content are required")
	}
	return nil
}

type PostPatch struct {
	Title   *string
	Content *string
}

func (p PostPatch) Normalize() PostPatch {
	p.Title = NonBlank(p.Title)
	p.Content = NonBlank(p.Content)
	return p
}

func (p PostPatch) IsEmpty() bool { return p.Title == nil && p.Content == nil }

// Comment belongs to a post and is owned by its author.
type Comment struct {
	ID        string    `json:"id" bson:"-"`
	PostID    string    `json:"postId" bson:"post_id"`
	AuthorID  string    `json:"authorId" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

func (c *Comment) Owner() string      { return c.AuthorID }
func (c *Comment) Attachment() string { return "" }

type CommentPatch struct {
	Content *string
}

func (p CommentPatch) Normalize() CommentPatch {
	p.Content = NonBlank(p.Content)
	return p
}

func (p CommentPatch) IsEmpty() bool { return p.Content == nil }

// Page is a 1-based page request shared by list endpoints.
type Page struct {
	Page  int
	Limit int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Clamp fills defaults and caps the page size.
func (p Page) Clamp() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Skip is the number of documents before the requested page.
func (p Page) Skip() int64 { return int64(p.Page-1) * int64(p.Limit) }
