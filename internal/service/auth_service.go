package service

import (
	"context"
	"errors"
	"time"

	"tasktracker/internal/auth"
	"tasktracker/internal/domain"

	"github.com/google/uuid"
)

const passwordProvider = "credential"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserBanned         = errors.New("user is banned")
)

// UserStore and SessionStore are the identity storage surfaces, satisfied
// by *repository.UserRepository and *repository.SessionRepository.
type UserStore interface {
	Create(ctx context.Context, name, email, role string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int, searchEmail string) ([]*domain.User, int, error)
	SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason *string) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)
	CreateAccount(ctx context.Context, userID uuid.UUID, providerID, passwordHash string) error
	GetAccount(ctx context.Context, userID uuid.UUID, providerID string) (*domain.Account, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID, token, ip, userAgent string, expiresAt time.Time) (*domain.Session, error)
	GetActive(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type AuthService struct {
	users      UserStore
	sessions   SessionStore
	tokens     *auth.TokenManager
	sessionTTL time.Duration
}

func NewAuthService(users UserStore, sessions SessionStore, tokens *auth.TokenManager, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

// SessionMeta carries request attributes recorded on the session row.
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

type SignedInUser struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

func (s *AuthService) SignUp(ctx context.Context, name, email, password string, meta SessionMeta) (*SignedInUser, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, name, email, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.users.CreateAccount(ctx, user.ID, passwordProvider, hash); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, meta)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string, meta SessionMeta) (*SignedInUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Same failure as a wrong password so the response does not
		// reveal whether the email exists.
		return nil, ErrInvalidCredentials
	}

	account, err := s.users.GetAccount(ctx, user.ID, passwordProvider)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if user.Banned {
		return nil, ErrUserBanned
	}

	return s.openSession(ctx, user, meta)
}

func (s *AuthService) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Resolve turns a bearer token into an authenticated identity, or nil
// when the token is missing, malformed, expired or revoked.
func (s *AuthService) Resolve(ctx context.Context, token string) *domain.Identity {
	if token == "" {
		return nil
	}

	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}

	session, err := s.sessions.GetActive(ctx, sessionID)
	if err != nil {
		return nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user.Banned {
		return nil
	}

	return &domain.Identity{User: user, Session: session}
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int, searchEmail string) ([]*domain.User, int, error) {
	return s.users.List(ctx, limit, offset, searchEmail)
}

// BanUser marks the user banned and revokes all of their sessions.
func (s *AuthService) BanUser(ctx context.Context, userID uuid.UUID, reason *string) error {
	if err := s.users.SetBanned(ctx, userID, true, reason); err != nil {
		return err
	}
	return s.sessions.DeleteByUser(ctx, userID)
}

func (s *AuthService) UnbanUser(ctx context.Context, userID uuid.UUID) error {
	return s.users.SetBanned(ctx, userID, false, nil)
}

func (s *AuthService) UpdateUser(ctx context.Context, userID uuid.UUID, name string) (*domain.User, error) {
	return s.users.UpdateName(ctx, userID, name)
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User, meta SessionMeta) (*SignedInUser, error) {
	expiresAt := time.Now().Add(s.sessionTTL)

	// The token column holds an opaque random value; the JWT handed to
	// the client carries the session id and is signed over it.
	session, err := s.sessions.Create(ctx, user.ID, uuid.NewString(), meta.IPAddress, meta.UserAgent, expiresAt)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(session.ID, expiresAt)
	if err != nil {
		return nil, err
	}

	return &SignedInUser{User: user, Session: session, Token: token}, nil
}
