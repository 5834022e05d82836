package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ccontapub/accounts-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn             func(ctx context.Context, email, password, name string) error
	confirmFn              func(ctx context.Context, tokenValue string) error
	loginFn                func(ctx context.Context, email, password string) (string, error)
	resendConfirmationFn   func(ctx context.Context, email string) error
	requestPasswordResetFn func(ctx context.Context, email string) error
	validateResetTokenFn   func(ctx context.Context, tokenValue string) error
	applyPasswordResetFn   func(ctx context.Context, tokenValue, newPassword string) error
	currentUserFn          func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password, name string) error {
	return s.registerFn(ctx, email, password, name)
}

func (s *stubAuthService) ConfirmAccount(ctx context.Context, tokenValue string) error {
	return s.confirmFn(ctx, tokenValue)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ResendConfirmation(ctx context.Context, email string) error {
	return s.resendConfirmationFn(ctx, email)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestPasswordResetFn(ctx, email)
}

func (s *stubAuthService) ValidateResetToken(ctx context.Context, tokenValue string) error {
	return s.validateResetTokenFn(ctx, tokenValue)
}

func (s *stubAuthService) ApplyPasswordReset(ctx context.Context, tokenValue, newPassword string) error {
	return s.applyPasswordResetFn(ctx, tokenValue, newPassword)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentUserFn(ctx, userID)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_CreateAccount_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) error {
			if email != "alice@example.com" || name != "Alice" {
				t.Fatalf("unexpected args: %s %s", email, name)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := postJSON(e, "/api/v1/auth/create-account",
		`{"name":"Alice","email":"alice@example.com","password":"password123","password_confirmation":"password123"}`)

	if err := h.CreateAccount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] == "" {
		t.Fatalf("expected message in response")
	}
}

func TestAuthHandler_CreateAccount_PasswordMismatch(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := postJSON(e, "/api/v1/auth/create-account",
		`{"name":"Alice","email":"alice@example.com","password":"password123","password_confirmation":"different1"}`)

	err := h.CreateAccount(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_CreateAccount_ShortPassword(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := postJSON(e, "/api/v1/auth/create-account",
		`{"name":"Alice","email":"alice@example.com","password":"short","password_confirmation":"short"}`)

	err := h.CreateAccount(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_CreateAccount_EmailTaken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password, name string) error {
			return domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub)

	c, _ := postJSON(e, "/api/v1/auth/create-account",
		`{"name":"Bob","email":"bob@example.com","password":"password123","password_confirmation":"password123"}`)

	// The central error handler owns the status mapping; the handler
	// just propagates the domain error.
	if err := h.CreateAccount(c); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "signed-session-token", nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := postJSON(e, "/api/v1/auth/login",
		`{"email":"carol@example.com","password":"s3cretpass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-session-token" {
		t.Fatalf("unexpected token payload: %+v", resp)
	}
}

func TestAuthHandler_Login_NotConfirmed(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", domain.ErrNotConfirmed
		},
	}
	h := NewAuthHandler(stub)

	c, _ := postJSON(e, "/api/v1/auth/login",
		`{"email":"dave@example.com","password":"password123"}`)

	if err := h.Login(c); err != domain.ErrNotConfirmed {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := postJSON(e, "/api/v1/auth/login", "not-json")

	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	e := newTestEcho()
	var gotToken, gotPassword string
	stub := &stubAuthService{
		applyPasswordResetFn: func(ctx context.Context, tokenValue, newPassword string) error {
			gotToken, gotPassword = tokenValue, newPassword
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := postJSON(e, "/api/v1/auth/update-password/123456",
		`{"password":"newpass123","password_confirmation":"newpass123"}`)
	c.SetParamNames("token")
	c.SetParamValues("123456")

	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotToken != "123456" || gotPassword != "newpass123" {
		t.Fatalf("unexpected args: %q %q", gotToken, gotPassword)
	}
}

func TestAuthHandler_User(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		currentUserFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.User{ID: userID, Email: "eve@example.com", Name: "Eve", Confirmed: true}, nil
		},
	}
	h := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/user", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user-1")

	if err := h.User(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "eve@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash must never be serialised")
	}
}

func TestAuthHandler_User_MissingClaims(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		currentUserFn: func(ctx context.Context, userID string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/user", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.User(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
