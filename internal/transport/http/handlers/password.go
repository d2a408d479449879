package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/middleware"
	"github.com/avanishkumar5035/jobsphere-identity/internal/usecase"
)

// PasswordHandler serves the password-reset OTP flow and authenticated
// password changes.
type PasswordHandler struct {
	resets *usecase.PasswordResetService
	log    *zap.Logger
}

// NewPasswordHandler constructs a PasswordHandler instance.
func NewPasswordHandler(resets *usecase.PasswordResetService, log *zap.Logger) *PasswordHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordHandler{resets: resets, log: log}
}

// ForgotPassword handles POST /forgot-password. The response is 200 whether
// or not the email actually left the building; only an unknown address gets a
// 404.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email is required"))
		return
	}

	result, err := h.resets.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusNotFound, Message: "no account found for that email"},
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "email is required"},
		}, http.StatusInternalServerError, "could not issue reset code")
		return
	}

	message := "a reset code has been sent to your email"
	if result.Delivery.Degraded {
		message = "a reset code has been issued; email delivery is currently restricted, please contact support if it does not arrive"
	}

	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// VerifyOTP handles POST /verify-otp. It confirms the reset code without
// consuming it.
func (h *PasswordHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and otp are required"))
		return
	}

	if err := h.resets.VerifyResetOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrExpiredOTP, Status: http.StatusBadRequest, Message: "invalid or expired otp"},
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusBadRequest, Message: "invalid or expired otp"},
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "email and otp are required"},
		}, http.StatusInternalServerError, "could not verify otp")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "otp verified"})
}

// ResetPassword handles PUT /reset-password.
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email, otp and password are required"))
		return
	}

	result, err := h.resets.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrExpiredOTP, Status: http.StatusBadRequest, Message: "invalid or expired otp"},
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusBadRequest, Message: "invalid or expired otp"},
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
		}, http.StatusInternalServerError, "could not reset password")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Token: result.Token,
		User:  NewIdentitySummary(result.Identity),
	})
}

// UpdatePassword handles PUT /update-password for an authenticated identity.
func (h *PasswordHandler) UpdatePassword(c *gin.Context) {
	identity := middleware.AuthenticatedIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "current_password and new_password are required"))
		return
	}

	if err := h.resets.ChangePassword(c.Request.Context(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCurrentPasswordInvalid, Status: http.StatusUnauthorized, Message: "current password is incorrect"},
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "could not update password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
