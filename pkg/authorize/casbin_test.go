package authorize

import (
	"context"
	"errors"
	"testing"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
)

func newTestAuth(t *testing.T, cfg Config) IAuthorization {
	t.Helper()

	e, err := NewEnforcer()
	if err != nil {
		t.Fatalf("failed to create enforcer: %v", err)
	}
	auth, err := NewAuthorization(e, cfg)
	if err != nil {
		t.Fatalf("failed to create authorization: %v", err)
	}
	if err := SeedDefaultPolicies(context.Background(), auth); err != nil {
		t.Fatalf("failed to seed policies: %v", err)
	}
	return auth
}

func TestNewAuthorization(t *testing.T) {
	t.Run("returns error for nil enforcer", func(t *testing.T) {
		_, err := NewAuthorization(nil, DefaultConfig())
		if err == nil {
			t.Error("Expected error for nil enforcer")
		}
	})

	t.Run("succeeds without adapter", func(t *testing.T) {
		e, err := NewEnforcer()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		auth, err := NewAuthorization(e, DefaultConfig())
		if err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
		if auth == nil {
			t.Error("Expected non-nil authorization")
		}
	})
}

func TestDefaultPolicies(t *testing.T) {
	auth := newTestAuth(t, DefaultConfig())
	ctx := context.Background()

	users := map[string]Role{
		"u_patient": RolePatient,
		"u_doctor":  RoleDoctor,
		"u_staff":   RoleStaff,
		"u_admin":   RoleAdmin,
	}
	for id, role := range users {
		if err := AssignAccountRole(ctx, auth, id, role); err != nil {
			t.Fatalf("AssignAccountRole(%s): %v", id, err)
		}
	}

	tests := []struct {
		name     string
		subject  string
		resource Resource
		action   Action
		want     bool
	}{
		{"patient books", "u_patient", ResourceAppointment, ActionCreate, true},
		{"patient cannot change status", "u_patient", ResourceAppointmentStatus, ActionUpdate, false},
		{"patient cannot list patients", "u_patient", ResourcePatient, ActionList, false},
		{"doctor edits schedule", "u_doctor", ResourceSchedule, ActionUpdate, true},
		{"doctor submits override", "u_doctor", ResourceOverride, ActionCreate, true},
		{"doctor cannot review override", "u_doctor", ResourceOverride, ActionReview, false},
		{"doctor cannot change status", "u_doctor", ResourceAppointmentStatus, ActionUpdate, false},
		{"staff changes status", "u_staff", ResourceAppointmentStatus, ActionUpdate, true},
		{"staff reads inventory", "u_staff", ResourceInventory, ActionList, true},
		{"staff cannot review override", "u_staff", ResourceOverride, ActionReview, false},
		{"admin reviews override", "u_admin", ResourceOverride, ActionReview, true},
		{"admin changes status", "u_admin", ResourceAppointmentStatus, ActionUpdate, true},
		{"unknown user denied", "u_ghost", ResourceDoctor, ActionList, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Enforce(ctx, GroupSubject(tt.subject), DomainSys, tt.resource, tt.action)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.subject, tt.resource, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforce_InvalidArgs(t *testing.T) {
	auth := newTestAuth(t, DefaultConfig())
	ctx := context.Background()

	tests := []struct {
		name     string
		subject  GroupSubject
		domain   Domain
		resource Resource
		action   Action
	}{
		{"empty subject", "", DomainSys, ResourceDoctor, ActionRead},
		{"invalid domain", "u1", Domain("clinic:1"), ResourceDoctor, ActionRead},
		{"unknown resource", "u1", DomainSys, Resource("wallet"), ActionRead},
		{"unknown action", "u1", DomainSys, ResourceDoctor, Action("launch")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Enforce(ctx, tt.subject, tt.domain, tt.resource, tt.action)
			if !errors.Is(err, ErrInvalidArgs) {
				t.Errorf("Enforce() error = %v, want ErrInvalidArgs", err)
			}
		})
	}
}

func TestRoleLinks_FreshEnforcer(t *testing.T) {
	ctx := context.Background()

	t.Run("enforcer from NewEnforcer", func(t *testing.T) {
		e, err := NewEnforcer()
		if err != nil {
			t.Fatal(err)
		}
		if roles := e.GetRolesForUserInDomain("nobody", string(DomainSys)); len(roles) != 0 {
			t.Errorf("roles = %v, want none", roles)
		}

		auth, err := NewAuthorization(e, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if err := AssignAccountRole(ctx, auth, "u1", RolePatient); err != nil {
			t.Fatalf("AssignAccountRole() = %v", err)
		}
	})

	t.Run("bare distributed enforcer", func(t *testing.T) {
		m, err := model.NewModelFromString(ModelText)
		if err != nil {
			t.Fatal(err)
		}
		e, err := casbin.NewDistributedEnforcer(m)
		if err != nil {
			t.Fatal(err)
		}
		auth, err := NewAuthorization(e, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if err := SeedDefaultPolicies(ctx, auth); err != nil {
			t.Fatal(err)
		}
		if err := AssignAccountRole(ctx, auth, "u2", RoleDoctor); err != nil {
			t.Fatalf("AssignAccountRole() = %v", err)
		}
		ok, err := auth.Enforce(ctx, "u2", DomainSys, ResourceSchedule, ActionUpdate)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("doctor should be allowed to update schedules")
		}
	})
}

func TestAssignAccountRole_ReplacesPreviousRole(t *testing.T) {
	auth := newTestAuth(t, DefaultConfig())
	ctx := context.Background()

	if err := AssignAccountRole(ctx, auth, "u1", RoleStaff); err != nil {
		t.Fatal(err)
	}
	if err := AssignAccountRole(ctx, auth, "u1", RolePatient); err != nil {
		t.Fatal(err)
	}

	roles, err := auth.GetRolesForUserInDomain(ctx, "u1", DomainSys)
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 1 || roles[0] != RolePatient {
		t.Errorf("roles = %v, want [%s]", roles, RolePatient)
	}

	if err := AssignAccountRole(ctx, auth, "u1", Role("role:janitor")); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown role error = %v, want ErrInvalidArgs", err)
	}
}

func TestAdminBypass(t *testing.T) {
	auth := newTestAuth(t, Config{AdminBypass: true})
	ctx := context.Background()

	if err := AssignAccountRole(ctx, auth, "u_admin", RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.AddPermission(ctx, RoleAdmin, DomainSys, ResourceSystem, ActionDelete, EffectDeny); err != nil {
		t.Fatal(err)
	}

	ok, err := auth.Enforce(ctx, "u_admin", DomainSys, ResourceSystem, ActionDelete)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("admin bypass should skip deny rules")
	}
}

func TestCheck(t *testing.T) {
	auth := NewAuditedAuthorization(newTestAuth(t, DefaultConfig()), nil)
	ctx := context.Background()

	if err := Check(ctx, auth, ResourceDoctor, ActionList); !errors.Is(err, ErrForbidden) {
		t.Errorf("anonymous Check() error = %v, want ErrForbidden", err)
	}

	if err := AssignAccountRole(ctx, auth, "u_doc", RoleDoctor); err != nil {
		t.Fatal(err)
	}
	ctx = reqctx.WithActor(ctx, reqctx.Actor{UserID: "u_doc", Role: "DOCTOR"})

	if err := Check(ctx, auth, ResourceSchedule, ActionUpdate); err != nil {
		t.Errorf("doctor Check(schedule, update) = %v", err)
	}
	if err := Check(ctx, auth, ResourceAppointmentStatus, ActionUpdate); !errors.Is(err, ErrForbidden) {
		t.Errorf("doctor Check(status, update) = %v, want ErrForbidden", err)
	}
	if !IsPolicyHealthy() {
		t.Error("policy should be healthy after seeding")
	}
}
