package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasktracker/internal/auth"
	"tasktracker/internal/domain"
	"tasktracker/internal/repository"

	"github.com/google/uuid"
)

type fakeUserStore struct {
	byEmail  map[string]*domain.User
	byID     map[uuid.UUID]*domain.User
	accounts map[uuid.UUID]*domain.Account
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail:  make(map[string]*domain.User),
		byID:     make(map[uuid.UUID]*domain.User),
		accounts: make(map[uuid.UUID]*domain.Account),
	}
}

func (s *fakeUserStore) Create(_ context.Context, name, email, role string) (*domain.User, error) {
	if _, exists := s.byEmail[email]; exists {
		return nil, repository.ErrEmailTaken
	}
	u := &domain.User{ID: uuid.New(), Name: name, Email: email, Role: role, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) List(_ context.Context, _, _ int, _ string) ([]*domain.User, int, error) {
	return nil, 0, nil
}

func (s *fakeUserStore) SetBanned(_ context.Context, id uuid.UUID, banned bool, reason *string) error {
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Banned = banned
	u.BanReason = reason
	return nil
}

func (s *fakeUserStore) UpdateName(_ context.Context, id uuid.UUID, name string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.Name = name
	return u, nil
}

func (s *fakeUserStore) CreateAccount(_ context.Context, userID uuid.UUID, providerID, passwordHash string) error {
	s.accounts[userID] = &domain.Account{ID: uuid.New(), UserID: userID, ProviderID: providerID, PasswordHash: passwordHash}
	return nil
}

func (s *fakeUserStore) GetAccount(_ context.Context, userID uuid.UUID, _ string) (*domain.Account, error) {
	a, ok := s.accounts[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return a, nil
}

type fakeSessionStore struct {
	sessions map[uuid.UUID]*domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[uuid.UUID]*domain.Session)}
}

func (s *fakeSessionStore) Create(_ context.Context, userID uuid.UUID, token, ip, userAgent string, expiresAt time.Time) (*domain.Session, error) {
	sess := &domain.Session{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *fakeSessionStore) GetActive(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil, repository.ErrSessionNotFound
	}
	return sess, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *fakeSessionStore) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func newAuthService() (*AuthService, *fakeUserStore, *fakeSessionStore) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef")
	return NewAuthService(users, sessions, tokens, time.Hour), users, sessions
}

func TestSignUpThenSignIn(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	signed, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", SessionMeta{})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if signed.Token == "" {
		t.Fatal("expected a session token")
	}
	if signed.User.Role != domain.RoleUser {
		t.Errorf("expected role user, got %s", signed.User.Role)
	}

	again, err := svc.SignIn(ctx, "alice@example.com", "password123", SessionMeta{})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if again.User.ID != signed.User.ID {
		t.Error("sign in returned a different user")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", SessionMeta{}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	_, err := svc.SignIn(ctx, "alice@example.com", "wrong-password", SessionMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInUnknownEmailIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthService()

	_, err := svc.SignIn(context.Background(), "nobody@example.com", "password123", SessionMeta{})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInBannedUser(t *testing.T) {
	svc, users, _ := newAuthService()
	ctx := context.Background()

	signed, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", SessionMeta{})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	users.byID[signed.User.ID].Banned = true

	_, err = svc.SignIn(ctx, "alice@example.com", "password123", SessionMeta{})
	if !errors.Is(err, ErrUserBanned) {
		t.Fatalf("expected ErrUserBanned, got %v", err)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	signed, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", SessionMeta{})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	identity := svc.Resolve(ctx, signed.Token)
	if identity == nil {
		t.Fatal("expected an identity for a fresh token")
	}
	if identity.User.ID != signed.User.ID {
		t.Error("resolved wrong user")
	}

	if got := svc.Resolve(ctx, "garbage"); got != nil {
		t.Error("malformed token must resolve to nil")
	}
	if got := svc.Resolve(ctx, ""); got != nil {
		t.Error("empty token must resolve to nil")
	}
}

func TestSignOutRevokesSession(t *testing.T) {
	svc, _, _ := newAuthService()
	ctx := context.Background()

	signed, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", SessionMeta{})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := svc.SignOut(ctx, signed.Session.ID); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	// The token still verifies cryptographically; the revoked session
	// row is what must kill it.
	if svc.Resolve(ctx, signed.Token) != nil {
		t.Error("token must not resolve after sign out")
	}
}

func TestBanRevokesAllSessions(t *testing.T) {
	svc, _, sessions := newAuthService()
	ctx := context.Background()

	signed, err := svc.SignUp(ctx, "Alice", "alice@example.com", "password123", SessionMeta{})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := svc.BanUser(ctx, signed.User.ID, nil); err != nil {
		t.Fatalf("ban user: %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Error("ban must revoke the user's sessions")
	}
	if svc.Resolve(ctx, signed.Token) != nil {
		t.Error("token must not resolve after ban")
	}
}
