package domain

import "time"

// Role enumerates the access levels an identity can hold.
type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleSeeker, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}

// Identity mirrors the persisted representation in the identities table.
// PasswordHash is excluded from every serialized view; presentation layers
// build their own summaries from this struct.
type Identity struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	Phone          *string
	MobileVerified bool

	// Profile fields share the identity record but are never touched by
	// credential mutations.
	Headline           *string
	Skills             []string
	ResumePath         *string
	CompanyName        *string
	CompanyWebsite     *string
	CompanyDescription *string
	SavedJobIDs        []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized returns a copy with the password hash stripped.
func (i Identity) Sanitized() Identity {
	i.PasswordHash = ""
	return i
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
