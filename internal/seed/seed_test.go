package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/stgeorge_backend/internal/domain"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
)

var anchor = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

func TestDemo(t *testing.T) {
	ctx := context.Background()
	repos := repository.New(store.New(store.NewMemoryBackend()))

	wrote, err := Demo(ctx, repos, anchor, false)
	require.NoError(t, err)
	assert.True(t, wrote)

	users, err := repos.Users.All(ctx)
	require.NoError(t, err)
	require.NoError(t, repos.Users.ReplaceAll(ctx, users[:1]))

	wrote, err = Demo(ctx, repos, anchor, false)
	require.NoError(t, err)
	assert.False(t, wrote)

	wrote, err = Demo(ctx, repos, anchor, true)
	require.NoError(t, err)
	assert.True(t, wrote)
	users, err = repos.Users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(build(anchor).users))
}

func TestBuild_Consistent(t *testing.T) {
	d := build(anchor)

	users := map[string]domain.User{}
	emails := map[string]bool{}
	for _, u := range d.users {
		users[u.ID] = u
		assert.False(t, emails[u.Email], "duplicate email %s", u.Email)
		emails[u.Email] = true
	}
	doctors := map[string]bool{}
	for _, doc := range d.doctors {
		assert.Equal(t, domain.RoleDoctor, users[doc.UserID].Role, doc.ID)
		doctors[doc.ID] = true
	}
	patients := map[string]bool{}
	for _, p := range d.patients {
		assert.Equal(t, domain.RolePatient, users[p.UserID].Role, p.ID)
		patients[p.ID] = true
	}

	assert.Len(t, d.schedules, 7*len(d.doctors))
	slots := map[string]bool{}
	for _, a := range d.appointments {
		assert.True(t, doctors[a.DoctorID], a.ID)
		assert.True(t, patients[a.PatientID], a.ID)
		if a.Status.Occupies() {
			assert.False(t, slots[a.SlotKey()], "double booked %s", a.SlotKey())
			slots[a.SlotKey()] = true
		}
	}
	for _, o := range d.overrides {
		assert.True(t, doctors[o.DoctorID], o.ID)
		assert.True(t, o.Type.Valid())
	}
}
