package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

// AuthHandler exposes registration and login for both principal classes.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterAdmin handles POST /api/auth/register/admin.
//
// @Summary      Register a new admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Admin registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/register/admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	return h.register(c, h.authService.RegisterAdmin)
}

// RegisterUser handles POST /api/auth/register/user.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/register/user [post]
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	return h.register(c, h.authService.RegisterUser)
}

// LoginAdmin handles POST /api/auth/login/admin.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login/admin [post]
func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	return h.login(c, h.authService.LoginAdmin)
}

// LoginUser handles POST /api/auth/login/user.
//
// @Summary      User login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "User credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login/user [post]
func (h *AuthHandler) LoginUser(c echo.Context) error {
	return h.login(c, h.authService.LoginUser)
}

// AdminTest handles GET /api/admin/test: role-gated smoke endpoint.
//
// @Summary      Verify admin authorization
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleTestResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/test [get]
func (h *AuthHandler) AdminTest(c echo.Context) error {
	return c.JSON(http.StatusOK, roleTestResponse{
		Message: "Admin access granted!",
		Role:    domain.RoleAdmin,
	})
}

// UserTest handles GET /api/user/test: role-gated smoke endpoint.
//
// @Summary      Verify user authorization
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleTestResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /user/test [get]
func (h *AuthHandler) UserTest(c echo.Context) error {
	return c.JSON(http.StatusOK, roleTestResponse{
		Message: "User access granted!",
		Role:    domain.RoleUser,
	})
}

func (h *AuthHandler) register(c echo.Context, fn func(ctx context.Context, in ports.RegisterInput) (string, error)) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := fn(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: message})
}

func (h *AuthHandler) login(c echo.Context, fn func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := fn(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: result.Token,
		Role:  result.Role,
		Email: result.Email,
		Name:  result.Name,
		ID:    result.ID,
	})
}
