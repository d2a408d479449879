package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
)

// ErrorResponse is the uniform error payload for every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the trace ID from context.
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Message: message,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// IdentitySummary is the serialized view of an identity. The password hash
// never appears here.
type IdentitySummary struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	Phone              *string   `json:"phone,omitempty"`
	MobileVerified     bool      `json:"mobile_verified"`
	Headline           *string   `json:"headline,omitempty"`
	Skills             []string  `json:"skills,omitempty"`
	ResumePath         *string   `json:"resume_path,omitempty"`
	CompanyName        *string   `json:"company_name,omitempty"`
	CompanyWebsite     *string   `json:"company_website,omitempty"`
	CompanyDescription *string   `json:"company_description,omitempty"`
	SavedJobIDs        []string  `json:"saved_job_ids,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewIdentitySummary converts a domain identity to its API view.
func NewIdentitySummary(identity domain.Identity) IdentitySummary {
	return IdentitySummary{
		ID:                 identity.ID,
		Name:               identity.Name,
		Email:              identity.Email,
		Role:               string(identity.Role),
		Phone:              identity.Phone,
		MobileVerified:     identity.MobileVerified,
		Headline:           identity.Headline,
		Skills:             identity.Skills,
		ResumePath:         identity.ResumePath,
		CompanyName:        identity.CompanyName,
		CompanyWebsite:     identity.CompanyWebsite,
		CompanyDescription: identity.CompanyDescription,
		SavedJobIDs:        identity.SavedJobIDs,
		CreatedAt:          identity.CreatedAt,
		UpdatedAt:          identity.UpdatedAt,
	}
}

// RegisterRequest is the payload for POST /register.
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionResponse carries an identity together with its session token.
type SessionResponse struct {
	Token string          `json:"token"`
	User  IdentitySummary `json:"user"`
}

// ForgotPasswordRequest is the payload for POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// VerifyOTPRequest is the payload for POST /verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

// ResetPasswordRequest is the payload for PUT /reset-password.
type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	OTP      string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdatePasswordRequest is the payload for PUT /update-password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// SendMobileOTPRequest is the payload for POST /send-mobile-otp.
type SendMobileOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyMobileOTPRequest is the payload for POST /verify-mobile-otp.
type VerifyMobileOTPRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// UpdateProfileRequest is the payload for PUT /profile. Absent fields leave
// the stored values untouched.
type UpdateProfileRequest struct {
	Name               *string  `json:"name"`
	Phone              *string  `json:"phone"`
	Headline           *string  `json:"headline"`
	Skills             []string `json:"skills"`
	ResumePath         *string  `json:"resume_path"`
	CompanyName        *string  `json:"company_name"`
	CompanyWebsite     *string  `json:"company_website"`
	CompanyDescription *string  `json:"company_description"`
	SavedJobIDs        []string `json:"saved_job_ids"`
}
