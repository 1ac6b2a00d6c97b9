package domain

import "time"

// Identity is the authenticated caller as decoded from a bearer token.
// Role is trusted as of token issuance; it is not re-read from the user store.
type Identity struct {
	SubjectID string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller holds the admin role.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

// CanModify reports whether the caller may mutate a resource owned by ownerID.
func (id Identity) CanModify(ownerID string) bool {
	return id.SubjectID != "" && (id.SubjectID == ownerID || id.IsAdmin())
}

// Owned is implemented by every resource with a single immutable owner.
type Owned interface {
	// Owner returns the id of the owning user.
	Owner() string
	// Attachment returns the stored file path, or "" when there is none.
	Attachment() string
}
