package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/port"
	"github.com/avanishkumar5035/jobsphere-identity/internal/infra/security"
	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/middleware"
	"github.com/avanishkumar5035/jobsphere-identity/internal/usecase"
)

// ProfileHandler serves profile reads and updates for the authenticated
// identity.
type ProfileHandler struct {
	profiles *usecase.ProfileService
	tokens   *security.TokenIssuer
	log      *zap.Logger
}

// NewProfileHandler constructs a ProfileHandler instance.
func NewProfileHandler(profiles *usecase.ProfileService, tokens *security.TokenIssuer, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{profiles: profiles, tokens: tokens, log: log}
}

// Update handles PUT /profile. The response carries the refreshed identity
// and a fresh session token so clients can stay signed in across the change.
func (h *ProfileHandler) Update(c *gin.Context) {
	identity := middleware.AuthenticatedIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "malformed request body"))
		return
	}

	updated, err := h.profiles.Update(c.Request.Context(), identity.ID, port.ProfilePatch{
		Name:               req.Name,
		Phone:              req.Phone,
		Headline:           req.Headline,
		Skills:             req.Skills,
		ResumePath:         req.ResumePath,
		CompanyName:        req.CompanyName,
		CompanyWebsite:     req.CompanyWebsite,
		CompanyDescription: req.CompanyDescription,
		SavedJobIDs:        req.SavedJobIDs,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "invalid profile fields"},
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusUnauthorized, Message: "authentication required"},
		}, http.StatusInternalServerError, "could not update profile")
		return
	}

	token, err := h.tokens.Issue(updated.ID, updated.Role)
	if err != nil {
		h.log.Error("issue token after profile update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "could not update profile"))
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Token: token,
		User:  NewIdentitySummary(*updated),
	})
}
