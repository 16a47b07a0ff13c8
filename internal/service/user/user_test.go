package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/session"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
)

func ptr[T any](v T) *T { return &v }

func setup(t *testing.T) (*UserService, session.Service, []domain.User) {
	t.Helper()
	st := store.New(store.NewMemoryBackend())
	repos := repository.New(st)
	users := []domain.User{
		{ID: "u1", Name: "Pat", Email: "pat@stgeorge.test", Role: domain.RolePatient},
		{ID: "u2", Name: "Other", Email: "other@stgeorge.test", Role: domain.RolePatient},
		{ID: "u3", Name: "Desk", Email: "desk@stgeorge.test", Role: domain.RoleStaff},
	}
	require.NoError(t, repos.Users.ReplaceAll(context.Background(), users))
	sessions := session.New(session.Deps{Store: st, Repos: repos})
	return New(repos, sessions), sessions, users
}

func TestGetAndList(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	u, err := svc.GetByID(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, "Desk", u.Name)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	patients, err := svc.List(ctx, ptr(domain.RolePatient))
	require.NoError(t, err)
	assert.Len(t, patients, 2)
}

func TestUpdate(t *testing.T) {
	svc, _, users := setup(t)
	pat, other, staff := users[0], users[1], users[2]

	tests := []struct {
		name    string
		actor   domain.User
		id      string
		upd     domain.UserUpdate
		wantErr error
	}{
		{"self", pat, "u1", domain.UserUpdate{Phone: ptr("(201) 555-0123")}, nil},
		{"bad phone", pat, "u1", domain.UserUpdate{Phone: ptr("555")}, ErrInvalidPhone},
		{"staff on anyone", staff, "u2", domain.UserUpdate{Avatar: ptr("a.png")}, nil},
		{"patient on other", other, "u1", domain.UserUpdate{Phone: ptr("1")}, ErrForbidden},
		{"blank name", pat, "u1", domain.UserUpdate{Name: ptr("  ")}, ErrInvalidName},
		{"unknown", staff, "nope", domain.UserUpdate{}, ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tt.actor, tt.id, tt.upd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUpdate_SyncsSessions(t *testing.T) {
	ctx := context.Background()
	svc, sessions, users := setup(t)

	sess, err := sessions.Login(ctx, "pat@stgeorge.test")
	require.NoError(t, err)

	u, err := svc.Update(ctx, users[0], "u1", domain.UserUpdate{Name: ptr(" Patricia "), IsProfileComplete: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Patricia", u.Name)

	cur, err := sessions.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "Patricia", cur.User.Name)
	assert.True(t, cur.User.IsProfileComplete)
}

func TestUpdate_NormalizesPhone(t *testing.T) {
	svc, _, users := setup(t)

	u, err := svc.Update(context.Background(), users[0], "u1", domain.UserUpdate{Phone: ptr("(201) 555-0123")})
	require.NoError(t, err)
	assert.Equal(t, "+12015550123", u.Phone)
}

func TestUpdate_Email(t *testing.T) {
	ctx := context.Background()
	svc, sessions, users := setup(t)
	pat, staff := users[0], users[2]

	u, err := svc.Update(ctx, pat, "u1", domain.UserUpdate{Email: ptr("  Pat.Jones@StGeorge.TEST ")})
	require.NoError(t, err)
	assert.Equal(t, "pat.jones@stgeorge.test", u.Email)

	sess, err := sessions.Login(ctx, "PAT.JONES@stgeorge.test")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)

	_, err = sessions.Login(ctx, "pat@stgeorge.test")
	assert.ErrorIs(t, err, session.ErrUnknownEmail)

	tests := []struct {
		name  string
		actor domain.User
		id    string
		email string
		want  error
	}{
		{"taken by another user", staff, "u2", "DESK@stgeorge.test", ErrEmailTaken},
		{"own address again", pat, "u1", "pat.jones@stgeorge.test", nil},
		{"no at sign", pat, "u1", "pat.stgeorge.test", ErrInvalidEmail},
		{"no domain dot", pat, "u1", "pat@localhost", ErrInvalidEmail},
		{"empty", pat, "u1", "   ", ErrInvalidEmail},
		{"missing user", staff, "nope", "ghost@stgeorge.test", ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.actor, tt.id, domain.UserUpdate{Email: ptr(tt.email)})
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	other, err := svc.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "other@stgeorge.test", other.Email)
}
