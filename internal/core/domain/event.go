package domain

import (
	"strings"
	"time"
)

// Event is a gathering announced by an artist or admin.
type Event struct {
	ID          string    `json:"id" bson:"-"`
	OrganizerID string    `json:"organizerId" bson:"organizer_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Location    string    `json:"location" bson:"location"`
	StartsAt    time.Time `json:"startsAt" bson:"starts_at"`
	ImageURL    string    `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

func (e *Event) Owner() string      { return e.OrganizerID }
func (e *Event) Attachment() string { return e.ImageURL }

type EventDraft struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
}

func (d EventDraft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Location) == "" {
		missing = append(missing, "location")
	}
	if d.StartsAt.IsZero() {
		missing = append(missing, "startsAt")
	}
	if len(missing) > 0 {
		return Invalid("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	ImageURL    *string
}

func (p EventPatch) Normalize() EventPatch {
	p.Title = NonBlank(p.Title)
	p.Description = NonBlank(p.Description)
	p.Location = NonBlank(p.Location)
	if p.StartsAt != nil && p.StartsAt.IsZero() {
		p.StartsAt = nil
	}
	return p
}

func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil &&
		p.StartsAt == nil && p.ImageURL == nil
}

type EventFilter struct {
	Search string
	// After, when set, keeps only events starting at or after it.
	After time.Time
	Page  int
	Limit int
}
