package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	users       ports.UserService
}

func NewAuthHandler(authService ports.AuthService, users ports.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, users: users}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type meResponse struct {
	User        userResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

// Me returns the authenticated account and the operations it may perform.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	user, err := h.users.Get(c.Request().Context(), actor, actor.ID)
	if err != nil {
		return err
	}

	ops := domain.PermittedOperations(user.Role)
	perms := make([]string, 0, len(ops))
	for _, op := range ops {
		perms = append(perms, string(op))
	}
	return c.JSON(http.StatusOK, meResponse{User: toUserResponse(user), Permissions: perms})
}
