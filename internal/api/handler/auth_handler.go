package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/UsagiiTsukino/medchain-api/internal/api/metrics"
	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates with email and password and returns an access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("password", "failed").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("password", "ok").Inc()
	return c.JSON(http.StatusOK, authResponse{AccessToken: result.AccessToken, User: result.User})
}

// LoginGoogle authenticates with a Google ID token.
//
// @Summary      Login with a Google ID token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleLoginRequest  true  "Google ID token"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login/google [post]
func (h *AuthHandler) LoginGoogle(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.LoginWithGoogle(c.Request().Context(), req.Token)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("google", "failed").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("google", "ok").Inc()
	return c.JSON(http.StatusOK, authResponse{AccessToken: result.AccessToken, User: result.User})
}

// Register creates a new patient account and mints its wallet address.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failed").Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	return c.JSON(http.StatusCreated, registerResponse{WalletAddress: user.WalletAddress, User: user})
}

// Logout revokes the caller's session. It always answers 200: local
// teardown must never be stranded by a server-side failure.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  logoutResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	_ = h.authService.Logout(c.Request().Context(), bearerToken(c))
	return c.JSON(http.StatusOK, logoutResponse{StatusCode: http.StatusOK})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess.User)
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
