package usecase

import "errors"

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates another identity already owns the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrIdentityNotFound indicates no identity matches the lookup.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrInvalidOrExpiredOTP covers every OTP redemption failure: wrong code,
	// expired code, missing code, and attempt exhaustion are indistinguishable
	// to the caller.
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")
	// ErrCurrentPasswordInvalid indicates the current password supplied for an
	// authenticated change did not match.
	ErrCurrentPasswordInvalid = errors.New("current password is incorrect")
	// ErrValidation indicates a request failed input validation.
	ErrValidation = errors.New("validation failed")
	// ErrPhoneMissing indicates a mobile OTP was requested without a phone
	// number on file or in the request.
	ErrPhoneMissing = errors.New("phone number is required")
)
