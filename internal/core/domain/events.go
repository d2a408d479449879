package domain

import "time"

// IdentityRegisteredEvent records a new account creation.
type IdentityRegisteredEvent struct {
	EventID      string
	IdentityID   string
	Name         string
	Email        string
	Role         Role
	RegisteredAt time.Time
}

// PasswordResetRequestedEvent records the issuance of a reset code.
type PasswordResetRequestedEvent struct {
	EventID           string
	IdentityID        string
	MaskedDestination string
	RequestedAt       time.Time
	ExpiresAt         time.Time
}

// PasswordChangedEvent records a credential rotation, whatever the trigger.
type PasswordChangedEvent struct {
	EventID    string
	IdentityID string
	ChangedAt  time.Time
	Source     string
}

// MobileVerifiedEvent records a successful phone verification.
type MobileVerifiedEvent struct {
	EventID     string
	IdentityID  string
	MaskedPhone string
	VerifiedAt  time.Time
}

// IdentityDeletedEvent records a hard delete performed by an administrator.
type IdentityDeletedEvent struct {
	EventID    string
	IdentityID string
	DeletedBy  string
	DeletedAt  time.Time
}
