package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/middleware"
	"github.com/avanishkumar5035/jobsphere-identity/internal/usecase"
)

// AdminHandler serves the administrative identity directory.
type AdminHandler struct {
	admin *usecase.AdminService
	log   *zap.Logger
}

// NewAdminHandler constructs an AdminHandler instance.
func NewAdminHandler(admin *usecase.AdminService, log *zap.Logger) *AdminHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminHandler{admin: admin, log: log}
}

// ListUsers handles GET /users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	identities, err := h.admin.ListIdentities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "could not list users"))
		return
	}

	summaries := make([]IdentitySummary, len(identities))
	for i, identity := range identities {
		summaries[i] = NewIdentitySummary(identity)
	}

	c.JSON(http.StatusOK, gin.H{"users": summaries})
}

// DeleteUser handles DELETE /users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "user id is required"))
		return
	}

	deletedBy := ""
	if admin := middleware.AuthenticatedIdentity(c); admin != nil {
		deletedBy = admin.ID
	}

	if err := h.admin.DeleteIdentity(c.Request.Context(), id, deletedBy); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "could not delete user")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}
