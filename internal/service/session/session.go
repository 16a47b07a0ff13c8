package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

const DefaultTTL = 12 * time.Hour

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Session is the persisted login. It carries a copy of the user record so
// reads do not have to join the users collection.
type Session struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	User      domain.User `json:"user"`
	CreatedAt string      `json:"createdAt"`
	ExpiresAt string      `json:"expiresAt"`
}

func (s Session) expired(now time.Time) bool {
	if s.ExpiresAt == "" {
		return false
	}
	at, err := time.Parse(time.RFC3339, s.ExpiresAt)
	return err != nil || !now.Before(at)
}

type Deps struct {
	Store *store.Store
	Repos *repository.Repositories
	Authz authorize.IAuthorization
	TTL   time.Duration
	Now   func() time.Time
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Login opens a session for the account with the given email.
	Login(ctx context.Context, email string) (*Session, error)
	// Current returns the live session or ErrNoSession.
	Current(ctx context.Context, sessionID string) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	// Sync rewrites the user copy held by every open session of u.
	Sync(ctx context.Context, u domain.User) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type sessionService struct {
	store *store.Store
	repos *repository.Repositories
	authz authorize.IAuthorization
	ttl   time.Duration
	now   func() time.Time
}

func New(d Deps) Service {
	s := &sessionService{store: d.Store, repos: d.Repos, authz: d.Authz, ttl: d.TTL, now: d.Now}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *sessionService) Login(ctx context.Context, email string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	u, err := s.repos.Users.FindOneBy(ctx, repository.KeyEmail, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if s.authz != nil {
		role, ok := authorize.RoleFor(string(u.Role))
		if !ok {
			return nil, ErrUnknownRole
		}
		if err := authorize.AssignAccountRole(ctx, s.authz, u.ID, role); err != nil {
			return nil, fmt.Errorf("assign role: %w", err)
		}
	}

	now := s.now().UTC()
	sess := &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    u.ID,
		User:      u,
		CreatedAt: now.Format(time.RFC3339),
		ExpiresAt: now.Add(s.ttl).Format(time.RFC3339),
	}
	if err := store.PutValue(ctx, s.store, store.SessionKey(sess.ID), sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if _, err := store.MutateValue(ctx, s.store, store.UserSessionsKey(u.ID), func(ids []string) ([]string, error) {
		return append(ids, sess.ID), nil
	}); err != nil {
		return nil, fmt.Errorf("index session: %w", err)
	}

	slog.Info("session opened", "user_id", u.ID, "role", u.Role, "session_id", sess.ID)
	return sess, nil
}

func (s *sessionService) Current(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	sess, ok, err := store.GetValue[Session](ctx, s.store, store.SessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}
	if sess.expired(s.now()) {
		if err := s.Logout(ctx, sessionID); err != nil {
			slog.Warn("drop expired session", "session_id", sessionID, "error", err)
		}
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	sess, ok, err := store.GetValue[Session](ctx, s.store, store.SessionKey(sessionID))
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		slog.Debug("logout: session already gone", "session_id", sessionID)
		return nil
	}
	if err := store.DeleteValue(ctx, s.store, store.SessionKey(sessionID)); err != nil {
		return err
	}
	_, err = store.MutateValue(ctx, s.store, store.UserSessionsKey(sess.UserID), func(ids []string) ([]string, error) {
		return slices.DeleteFunc(ids, func(id string) bool { return id == sessionID }), nil
	})
	return err
}

func (s *sessionService) Sync(ctx context.Context, u domain.User) error {
	ids, _, err := store.GetValue[[]string](ctx, s.store, store.UserSessionsKey(u.ID))
	if err != nil {
		return fmt.Errorf("load user sessions: %w", err)
	}

	var errs []error
	for _, id := range ids {
		sess, ok, err := store.GetValue[Session](ctx, s.store, store.SessionKey(id))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		sess.User = u
		if err := store.PutValue(ctx, s.store, store.SessionKey(id), sess); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
