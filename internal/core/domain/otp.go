package domain

import "time"

// OTPSlot identifies one of the two independent one-time-passcode channels.
// Codes issued for one slot can never satisfy a check against the other.
type OTPSlot string

const (
	OTPSlotPasswordReset OTPSlot = "password_reset"
	OTPSlotMobileVerify  OTPSlot = "mobile_verify"
)

// IsValid reports whether the slot names a known OTP channel.
func (s OTPSlot) IsValid() bool {
	return s == OTPSlotPasswordReset || s == OTPSlotMobileVerify
}

// OTPIssue captures an issued code together with its validity window and the
// number of failed redemption attempts recorded against it.
type OTPIssue struct {
	Slot       OTPSlot
	IdentityID string
	Code       string
	Attempts   int
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// IsExpired reports whether the code can still be redeemed at the given instant.
func (o OTPIssue) IsExpired(at time.Time) bool {
	return !o.ExpiresAt.After(at)
}
