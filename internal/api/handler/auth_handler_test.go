package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn       func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	loginGoogleFn func(ctx context.Context, idToken string) (*ports.LoginResult, error)
	registerFn    func(ctx context.Context, fullName, email, password string) (*domain.User, error)
	logoutTokens  []string
	logoutErr     error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) LoginWithGoogle(ctx context.Context, idToken string) (*ports.LoginResult, error) {
	return s.loginGoogleFn(ctx, idToken)
}

func (s *stubAuthService) Register(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, fullName, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.logoutTokens = append(s.logoutTokens, token)
	return s.logoutErr
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "mai@medchain.local" || password != "s3cret99" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{
				AccessToken: "token123",
				User:        &domain.User{ID: "u-1", Email: email, Role: domain.RoleFromString("PATIENT")},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"mai@medchain.local","password":"s3cret99"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["accessToken"] != "token123" {
		t.Fatalf("expected token, got %v", resp["accessToken"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "mai@medchain.local" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"mai@medchain.local","password":"wrong-one"}`)
	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for name, body := range map[string]string{
		"broken json": "{",
		"bad email":   `{"email":"not-an-email","password":"s3cret99"}`,
	} {
		c, _ := newTestContext(t, http.MethodPost, "/auth/login", body)
		err := handler.Login(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", name, err)
		}
	}
}

func TestAuthHandler_LoginGoogle_Success(t *testing.T) {
	stub := &stubAuthService{
		loginGoogleFn: func(ctx context.Context, idToken string) (*ports.LoginResult, error) {
			if idToken != "google-id-token" {
				t.Fatalf("unexpected token %q", idToken)
			}
			return &ports.LoginResult{
				AccessToken: "token456",
				User:        &domain.User{ID: "u-2", Email: "new@gmail.com"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login/google",
		`{"token":"google-id-token"}`)
	if err := handler.LoginGoogle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, fullName, email, password string) (*domain.User, error) {
			return &domain.User{
				ID:            "u-3",
				FullName:      fullName,
				Email:         email,
				Role:          domain.RoleFromString("PATIENT"),
				WalletAddress: "0x00112233445566778899aabbccddeeff00112233",
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"fullName":"Mai Anh","email":"mai@medchain.local","password":"s3cret99"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["walletAddress"] != "0x00112233445566778899aabbccddeeff00112233" {
		t.Fatalf("expected minted wallet in response, got %v", resp["walletAddress"])
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, fullName, email, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"fullName":"Mai Anh","email":"mai@medchain.local","password":"short"}`)
	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, fullName, email, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"fullName":"Mai Anh","email":"mai@medchain.local","password":"s3cret99"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to propagate, got %v", err)
	}
}

func TestAuthHandler_Logout_AlwaysOK(t *testing.T) {
	stub := &stubAuthService{logoutErr: errors.New("redis down")}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "")
	c.Request().Header.Set("Authorization", "Bearer token123")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.logoutTokens) != 1 || stub.logoutTokens[0] != "token123" {
		t.Fatalf("expected bearer token passed to service, got %v", stub.logoutTokens)
	}
}
