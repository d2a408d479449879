package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/middleware"
	"github.com/avanishkumar5035/jobsphere-identity/internal/usecase"
)

// MobileHandler serves the mobile-verification OTP flow.
type MobileHandler struct {
	mobile *usecase.MobileVerificationService
	log    *zap.Logger
}

// NewMobileHandler constructs a MobileHandler instance.
func NewMobileHandler(mobile *usecase.MobileVerificationService, log *zap.Logger) *MobileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MobileHandler{mobile: mobile, log: log}
}

// SendOTP handles POST /send-mobile-otp.
func (h *MobileHandler) SendOTP(c *gin.Context) {
	identity := middleware.AuthenticatedIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req SendMobileOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "malformed request body"))
		return
	}

	result, err := h.mobile.SendOTP(c.Request.Context(), identity.ID, req.Phone)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPhoneMissing, Status: http.StatusBadRequest, Message: "phone number is required"},
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "could not send verification code")
		return
	}

	message := "a verification code has been sent to your phone"
	if result.Delivery.Degraded {
		message = "a verification code has been issued; sms delivery is currently restricted, please contact support if it does not arrive"
	}

	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// VerifyOTP handles POST /verify-mobile-otp.
func (h *MobileHandler) VerifyOTP(c *gin.Context) {
	identity := middleware.AuthenticatedIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req VerifyMobileOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "otp is required"))
		return
	}

	if err := h.mobile.VerifyOTP(c.Request.Context(), identity.ID, req.OTP); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidOrExpiredOTP, Status: http.StatusBadRequest, Message: "invalid or expired otp"},
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "could not verify phone")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "phone verified"})
}
