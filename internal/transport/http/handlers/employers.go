package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/usecase"
)

// EmployerHandler serves the public employer directory.
type EmployerHandler struct {
	admin *usecase.AdminService
	log   *zap.Logger
}

// NewEmployerHandler constructs an EmployerHandler instance.
func NewEmployerHandler(admin *usecase.AdminService, log *zap.Logger) *EmployerHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &EmployerHandler{admin: admin, log: log}
}

// companyView is the public projection of an employer profile. Contact fields
// stay private.
type companyView struct {
	ID                 string  `json:"id"`
	CompanyName        *string `json:"company_name,omitempty"`
	CompanyWebsite     *string `json:"company_website,omitempty"`
	CompanyDescription *string `json:"company_description,omitempty"`
	Headline           *string `json:"headline,omitempty"`
}

func newCompanyView(identity domain.Identity) companyView {
	return companyView{
		ID:                 identity.ID,
		CompanyName:        identity.CompanyName,
		CompanyWebsite:     identity.CompanyWebsite,
		CompanyDescription: identity.CompanyDescription,
		Headline:           identity.Headline,
	}
}

// ListEmployers handles GET /employers.
func (h *EmployerHandler) ListEmployers(c *gin.Context) {
	employers, err := h.admin.ListByRole(c.Request.Context(), domain.RoleEmployer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "could not list employers"))
		return
	}

	views := make([]companyView, len(employers))
	for i, employer := range employers {
		views[i] = newCompanyView(employer)
	}

	c.JSON(http.StatusOK, gin.H{"employers": views})
}

// GetCompany handles GET /companies/:id.
func (h *EmployerHandler) GetCompany(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "company id is required"))
		return
	}

	identity, err := h.admin.GetIdentity(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrIdentityNotFound, Status: http.StatusNotFound, Message: "company not found"},
		}, http.StatusInternalServerError, "could not load company")
		return
	}

	if identity.Role != domain.RoleEmployer {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "company not found"))
		return
	}

	c.JSON(http.StatusOK, newCompanyView(*identity))
}
