package domain

import (
	"strings"
	"time"
)

// Artwork is a listing owned by the artist who created it.
type Artwork struct {
	ID          string    `json:"id" bson:"-"`
	ArtistID    string    `json:"artistId" bson:"artist_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       string    `json:"price" bson:"price"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	ImageURL    string    `json:"imageUrl" bson:"image_url"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

func (a *Artwork) Owner() string      { return a.ArtistID }
func (a *Artwork) Attachment() string { return a.ImageURL }

// InStock reports whether at least n units are available.
func (a *Artwork) InStock(n int) bool { return n > 0 && a.Quantity >= n }

// ArtworkDraft is the metadata submitted alongside a new artwork image.
type ArtworkDraft struct {
	Title       string
	Description string
	Price       string
	Category    string
	Quantity    int
}

// Validate checks the required listing fields.
func (d ArtworkDraft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Price) == "" {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return Invalid("missing required fields: %s", strings.Join(missing, ", "))
	}
	if d.Quantity < 0 {
		return Invalid("quantity must not be negative")
	}
	return nil
}

// ArtworkPatch is a partial update; nil fields are untouched.
type ArtworkPatch struct {
	Title       *string
	Description *string
	Price       *string
	Category    *string
	Quantity    *int
	ImageURL    *string
}

// Normalize drops blank string fields so they count as "not supplied".
func (p ArtworkPatch) Normalize() ArtworkPatch {
	p.Title = NonBlank(p.Title)
	p.Description = NonBlank(p.Description)
	p.Price = NonBlank(p.Price)
	p.Category = NonBlank(p.Category)
	return p
}

func (p ArtworkPatch) Validate() error {
	if p.Quantity != nil && *p.Quantity < 0 {
		return Invalid("quantity must not be negative")
	}
	return nil
}

func (p ArtworkPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Quantity == nil && p.ImageURL == nil
}

// ArtworkFilter narrows an artwork listing. Search is a case-insensitive
// substring match over title, description and category.
type ArtworkFilter struct {
	Search   string
	Category string
	ArtistID string
	Page     int
	Limit    int
}

// NonBlank trims s and drops it when nothing is left.
func NonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
