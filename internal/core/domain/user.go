package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleNormalUser Role = "normal_user"
	RoleArtist     Role = "artist"
	RoleAdmin      Role = "admin"
)

// Capability is something a role may be allowed to do.
type Capability int

const (
	CapSellArtwork Capability = iota
	CapHostEvent
	CapModerate
)

var roleCapabilities = map[Role][]Capability{
	RoleArtist: {CapSellArtwork, CapHostEvent},
	RoleAdmin:  {CapHostEvent, CapModerate},
}

// ParseRole converts s into a Role, rejecting anything outside the enum.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleNormalUser, RoleArtist, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Can reports whether r grants capability c.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// User models an account. PasswordHash never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Owner implements Owned: a user owns their own profile.
func (u *User) Owner() string { return u.ID }

// Attachment implements Owned.
func (u *User) Attachment() string { return u.ProfileImage }

// PublicProfile is the view of a user exposed to other users.
type PublicProfile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Name: u.Name, Role: u.Role, ProfileImage: u.ProfileImage, Bio: u.Bio}
}

// UserPatch is a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	Bio          *string
	ProfileImage *string
}

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
