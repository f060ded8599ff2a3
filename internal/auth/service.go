package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const minPasswordLength = 6

// Service implements sign-up, sign-in and sign-out over the user store,
// plus session-change observation. Sessions are bearer tokens held in
// memory; restarting the process signs everyone out.
type Service struct {
	store UserStore

	mu           sync.RWMutex
	sessions     map[string]*Identity
	observers    map[int]func(*Identity)
	nextObserver int

	limMu    sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewService(store UserStore) *Service {
	return &Service{
		store:     store,
		sessions:  make(map[string]*Identity),
		observers: make(map[int]func(*Identity)),
		limiters:  make(map[string]*rate.Limiter),
	}
}

// SignUp registers a new account and signs it in, returning the identity
// and a session token.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*Identity, string, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	identity := &Identity{UID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
	token := s.openSession(identity)
	return identity, token, nil
}

// SignIn verifies the credential and opens a session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Identity, string, error) {
	if !s.limiter(email).Allow() {
		return nil, "", ErrTooManyAttempts
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredential
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredential
	}

	identity := &Identity{UID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
	token := s.openSession(identity)
	return identity, token, nil
}

// SignOut invalidates the token. Unknown tokens are ignored.
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	_, existed := s.sessions[token]
	delete(s.sessions, token)
	observers := s.snapshotObservers()
	s.mu.Unlock()

	if existed {
		notify(observers, nil)
	}
}

// IdentityForToken resolves a session token to its identity, or nil.
func (s *Service) IdentityForToken(token string) *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[token]
}

// Observe registers a callback invoked with the current identity (or nil)
// on every session change. It fires once immediately with no identity, the
// way a fresh client starts out signed off, and returns an unsubscribe
// function.
func (s *Service) Observe(fn func(*Identity)) func() {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	s.mu.Unlock()

	fn(nil)

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *Service) openSession(identity *Identity) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = identity
	observers := s.snapshotObservers()
	s.mu.Unlock()

	notify(observers, identity)
	return token
}

// snapshotObservers is called with s.mu held.
func (s *Service) snapshotObservers() []func(*Identity) {
	out := make([]func(*Identity), 0, len(s.observers))
	for _, fn := range s.observers {
		out = append(out, fn)
	}
	return out
}

func notify(observers []func(*Identity), identity *Identity) {
	for _, fn := range observers {
		fn(identity)
	}
}

// limiter returns the per-email sign-in limiter: burst of 5 attempts,
// refilling one every 10 seconds.
func (s *Service) limiter(email string) *rate.Limiter {
	s.limMu.Lock()
	defer s.limMu.Unlock()
	lim, ok := s.limiters[email]
	if !ok {
		lim = rate.NewLimiter(rate.Every(10*time.Second), 5)
		s.limiters[email] = lim
	}
	return lim
}
