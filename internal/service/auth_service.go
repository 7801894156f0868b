package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"expense_tracker/internal/models"
	"expense_tracker/internal/repository"
)

const (
	maxUsernameLen   = 100
	maxPasswordBytes = 72 // bcrypt input limit
)

// dummyHash is compared against when the email is unknown, so both failure paths cost a bcrypt round.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("expense-tracker-dummy"), bcrypt.DefaultCost)

// AuthService handles registration, password checks and bearer tokens.
type AuthService struct {
	authRepo   repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(repo repository.Authorization, signingKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		authRepo:   repo,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// Register validates input, hashes the password and creates a new user.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	v := &validator{}
	v.check(username != "", "username is required")
	v.check(len(username) <= maxUsernameLen, "username must be at most %d characters", maxUsernameLen)
	v.check(validEmail(email), "email is not valid")
	v.check(strings.TrimSpace(password) != "", "password is required")
	v.check(len(password) <= maxPasswordBytes, "password must be at most %d bytes", maxPasswordBytes)
	if err := v.err(); err != nil {
		return 0, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return 0, err
	}
	id, err := s.authRepo.Create(ctx, username, email, hash)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return 0, ErrDuplicateEmail
	}
	return id, err
}

// Authenticate returns the user owning email if password matches.
// Unknown email and wrong password both yield ErrAuthFailure.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.authRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		_ = verifyPassword(string(dummyHash), password)
		return nil, ErrAuthFailure
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrAuthFailure
	}
	return u, nil
}

// User returns the user by id, or ErrAuthFailure if it no longer exists.
func (s *AuthService) User(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.authRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrAuthFailure
	}
	return u, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// GenerateToken validates credentials and returns JWT
func (s *AuthService) GenerateToken(ctx context.Context, email, password string) (string, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.issueToken(u.ID)
}

// ParseToken parses JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int64, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

func (s *AuthService) issueToken(userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
