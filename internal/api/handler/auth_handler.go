package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ccontapub/accounts-api/internal/api/metrics"
	"github.com/ccontapub/accounts-api/internal/core/domain"
	"github.com/ccontapub/accounts-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type createAccountRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type confirmAccountRequest struct {
	Token string `json:"token" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type tokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type newPasswordRequest struct {
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type sessionResponse struct {
	Token string `json:"token"`
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// CreateAccount registers a new user and emails a confirmation code.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/create-account [post]
func (h *AuthHandler) CreateAccount(c echo.Context) error {
	var req createAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name); err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "Account created, check your email"})
}

// ConfirmAccount consumes a confirmation code.
//
// @Summary      Confirm an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      confirmAccountRequest  true  "Confirmation code"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/confirm-account [post]
func (h *AuthHandler) ConfirmAccount(c echo.Context) error {
	var req confirmAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ConfirmAccount(c.Request().Context(), req.Token); err != nil {
		return err
	}

	metrics.AccountsConfirmedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Account confirmed, you can now log in"})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, sessionResponse{Token: token})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotConfirmed):
		return "not_confirmed"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "bad_credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// RequestCode reissues a confirmation code for an unconfirmed account.
//
// @Summary      Request a new confirmation code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/request-code [post]
func (h *AuthHandler) RequestCode(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResendConfirmation(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "A new code has been sent to your e-mail"})
}

// ForgotPassword starts the password reset flow.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Check your email for instructions"})
}

// ValidateToken checks a reset code without consuming it.
//
// @Summary      Validate a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Reset code"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  map[string]string
// @Router       /auth/validate-token [post]
func (h *AuthHandler) ValidateToken(c echo.Context) error {
	var req tokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ValidateResetToken(c.Request().Context(), req.Token); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Code valid, set your new password"})
}

// UpdatePassword consumes a reset code and replaces the password.
//
// @Summary      Reset the password with a code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string              true  "Reset code"
// @Param        body   body      newPasswordRequest  true  "New password"
// @Success      200    {object}  messageResponse
// @Failure      404    {object}  map[string]string
// @Router       /auth/update-password/{token} [post]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	var req newPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ApplyPasswordReset(c.Request().Context(), token, req.Password); err != nil {
		return err
	}

	metrics.PasswordResetsTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully"})
}

// User returns the account behind the caller's session token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/user [get]
func (h *AuthHandler) User(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
