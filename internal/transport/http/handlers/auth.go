package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avanishkumar5035/jobsphere-identity/internal/core/domain"
	"github.com/avanishkumar5035/jobsphere-identity/internal/transport/http/middleware"
	"github.com/avanishkumar5035/jobsphere-identity/internal/usecase"
)

// AuthHandler serves registration, login, and the authenticated identity view.
type AuthHandler struct {
	registration *usecase.RegistrationService
	auth         *usecase.AuthService
	log          *zap.Logger
}

// NewAuthHandler constructs an AuthHandler instance.
func NewAuthHandler(registration *usecase.RegistrationService, auth *usecase.AuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{registration: registration, auth: auth, log: log}
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "name, email and password are required"))
		return
	}

	token, identity, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        domain.Role(req.Role),
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email is already registered"},
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "invalid registration details"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		Token: token,
		User:  NewIdentitySummary(*identity),
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "email and password are required"))
		return
	}

	token, identity, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusBadRequest, Message: "invalid email or password"},
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "email and password are required"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Token: token,
		User:  NewIdentitySummary(*identity),
	})
}

// Me handles GET /me.
func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.AuthenticatedIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, NewIdentitySummary(*identity))
}
