package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
)

// AuthService implements registration, password and Google login, and logout.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	google   ports.GoogleVerifier
	secret   string
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	google ports.GoogleVerifier,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		google:   google,
		secret:   jwtSecret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// LoginWithGoogle verifies the ID token with the external verifier, then
// signs the matching account in. A verified identity without an account gets
// one created on the fly with the PATIENT role.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*ports.LoginResult, error) {
	if idToken == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("google token rejected")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, identity.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.createAccount(ctx, identity.FullName, identity.Email, "", identity.Avatar)
	}
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	if fullName == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.createAccount(ctx, fullName, email, string(hash), "")
}

// Logout revokes the session. The call never fails from the caller's point
// of view: a session store error is logged and swallowed so the client-side
// teardown is never stranded half logged-in.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.log.Warn().Err(err).Msg("session delete failed, proceeding with local logout")
	}
	return nil
}

func (s *AuthService) createAccount(ctx context.Context, fullName, email, passwordHash, avatar string) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		FullName:      fullName,
		Email:         email,
		PasswordHash:  passwordHash,
		Role:          domain.RoleFromString(string(domain.RolePatient)),
		Avatar:        avatar,
		WalletAddress: generateWalletAddress(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.users.Create(ctx, user)
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*ports.LoginResult, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, token, user, s.tokenTTL); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return &ports.LoginResult{AccessToken: token, User: user}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		// the role claim carries the raw representation; consumers
		// normalize on the way back in
		"role": user.Role.Raw(),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// generateWalletAddress mints a 0x-prefixed 20-byte hex wallet address.
func generateWalletAddress() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("0x%040x", time.Now().UnixNano())
	}
	return "0x" + hex.EncodeToString(b)
}
