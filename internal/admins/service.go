package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sophro-cabinet/site-backend/internal/models"
	"github.com/sophro-cabinet/site-backend/internal/tokens"
	"github.com/sophro-cabinet/site-backend/pkg/logger"
	"github.com/sophro-cabinet/site-backend/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 12
	MinPasswordLength = 8
	// bcrypt only accepts up to 72 bytes
	MaxPasswordLength = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password does not match")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", MaxPasswordLength)
	ErrMissingFields      = errors.New("missing required fields")
)

// Session is returned by a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Admin     *models.Admin
}

// Profile is the client view of an admin account.
type Profile struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastLogin  *time.Time `json:"lastLogin"`
	LoginCount int        `json:"loginCount"`
}

func ToProfile(a *models.Admin) Profile {
	return Profile{ID: a.ID.Hex(), Email: a.Email, CreatedAt: a.CreatedAt, LastLogin: a.LastLogin, LoginCount: a.LoginCount}
}

// Service encapsulates admin account logic
type Service struct {
	repo   Repository
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(r Repository, secret string, ttl time.Duration) *Service {
	return &Service{repo: r, secret: secret, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Authenticate checks credentials, records the login and issues an access token.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	a, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		metrics.AdminLogins.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		metrics.AdminLogins.WithLabelValues("failure").Inc()
		logger.Infof("failed login for admin %s", a.ID.Hex())
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.repo.RecordLogin(ctx, a.ID, now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	a.LastLogin = &now
	a.LoginCount++

	tok, err := tokens.GenerateAccessToken(s.secret, a, s.ttl)
	if err != nil {
		return nil, err
	}
	metrics.AdminLogins.WithLabelValues("success").Inc()
	return &Session{Token: tok, ExpiresAt: now.Add(s.ttl), Admin: a}, nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*models.Admin, error) {
	oid, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, oid)
}

// ChangePassword verifies the current password before storing a hash of the new one.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	if current == "" || next == "" {
		return ErrMissingFields
	}
	if err := checkPasswordLength(next); err != nil {
		return err
	}
	a, err := s.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, a.ID, hash)
}

// EnsureAdmin creates the account when it does not exist yet. Returns true when created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	if err := checkPasswordLength(password); err != nil {
		return false, err
	}
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.repo.Create(ctx, &models.Admin{Email: email, PasswordHash: hash}); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func checkPasswordLength(p string) error {
	switch {
	case len(p) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(p) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

func HashPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
