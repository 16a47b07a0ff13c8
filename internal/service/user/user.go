package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/session"
	"github.com/Alijeyrad/stgeorge_backend/pkg/util/phone"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// List returns every account, or only those with the given role.
	List(ctx context.Context, role *domain.Role) ([]domain.User, error)
	// Update applies a partial update. Users may update themselves; staff and
	// admins may update anyone. Open sessions of the user are refreshed.
	Update(ctx context.Context, actor domain.User, id string, upd domain.UserUpdate) (*domain.User, error)
}

type UserService struct {
	repos    *repository.Repositories
	sessions session.Service
}

func New(repos *repository.Repositories, sessions session.Service) *UserService {
	return &UserService{repos: repos, sessions: sessions}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (s *UserService) List(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	all, err := s.repos.Users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if role == nil {
		return all, nil
	}
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		if u.Role == *role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserService) Update(ctx context.Context, actor domain.User, id string, upd domain.UserUpdate) (*domain.User, error) {
	if actor.ID != id && !actor.Role.IsStaffLike() {
		return nil, ErrForbidden
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if n := utf8.RuneCountInString(name); n == 0 || n > 100 {
			return nil, ErrInvalidName
		}
		upd.Name = &name
	}
	if upd.Phone != nil {
		num, err := phone.Normalize(*upd.Phone, phone.DefaultRegion)
		if err != nil {
			return nil, ErrInvalidPhone
		}
		upd.Phone = &num
	}

	if upd.Email != nil {
		email := domain.NormalizeEmail(*upd.Email)
		if !validEmail(email) {
			return nil, ErrInvalidEmail
		}
		upd.Email = &email
	}

	u, err := s.apply(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		if err := s.sessions.Sync(ctx, u); err != nil {
			slog.Warn("failed to sync sessions after user update", "user_id", id, "error", err)
		}
	}
	return &u, nil
}

// apply patches the user inside one store update so the email uniqueness
// check and the write cannot interleave with another update.
func (s *UserService) apply(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error) {
	var updated domain.User
	_, err := s.repos.Users.Mutate(ctx, func(ix *repository.Index[domain.User]) ([]domain.User, error) {
		if _, ok := ix.Get(id); !ok {
			return nil, ErrUserNotFound
		}
		if upd.Email != nil {
			for _, other := range ix.Lookup(repository.KeyEmail, *upd.Email) {
				if other.ID != id {
					return nil, ErrEmailTaken
				}
			}
		}

		items := ix.All()
		out := make([]domain.User, len(items))
		for i, u := range items {
			if u.ID == id {
				upd.Apply(&u)
				updated = u
			}
			out[i] = u
		}
		return out, nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrEmailTaken) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

// validEmail wants exactly one "@" with something on both sides and a dot in
// the domain part.
func validEmail(email string) bool {
	local, host, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(host, "@") {
		return false
	}
	dot := strings.LastIndexByte(host, '.')
	return dot > 0 && dot < len(host)-1 && !strings.ContainsAny(email, " \t")
}
