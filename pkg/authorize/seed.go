package authorize

import (
	"context"
	"log/slog"
)

func allow(role Role, obj Resource, acts ...Action) []PermissionPolicy {
	out := make([]PermissionPolicy, 0, len(acts))
	for _, act := range acts {
		out = append(out, PermissionPolicy{role, DomainSys, obj, act, EffectAllow})
	}
	return out
}

// DefaultPolicies is the hospital permission table. Ownership rules (a
// patient only books for themselves, a doctor only edits their own schedule)
// are enforced by the services, not here.
func DefaultPolicies() []PermissionPolicy {
	var ps []PermissionPolicy
	add := func(p []PermissionPolicy) { ps = append(ps, p...) }

	// Admin: everything
	add([]PermissionPolicy{{RoleAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow}})

	// Staff: front desk and records
	add(allow(RoleStaff, ResourceAppointment, ActionCreate, ActionRead, ActionList))
	add(allow(RoleStaff, ResourceAppointmentStatus, ActionUpdate))
	add(allow(RoleStaff, ResourcePatient, ActionRead, ActionList, ActionUpdate))
	add(allow(RoleStaff, ResourceDoctor, ActionRead, ActionList))
	add(allow(RoleStaff, ResourceSchedule, ActionRead))
	add(allow(RoleStaff, ResourceUser, ActionRead, ActionUpdate))
	for _, r := range []Resource{ResourceBranch, ResourceMedicine, ResourceInventory, ResourceBill, ResourceRoom, ResourceLabTest} {
		add(allow(RoleStaff, r, ActionRead, ActionList))
	}
	add(allow(RoleStaff, ResourceDashboard, ActionRead))
	// Override review stays with admins.
	add([]PermissionPolicy{{RoleStaff, DomainSys, ResourceOverride, ActionReview, EffectDeny}})

	// Doctor: own schedule and overrides, read access to their patients
	add(allow(RoleDoctor, ResourceAppointment, ActionRead, ActionList))
	add(allow(RoleDoctor, ResourceSchedule, ActionRead, ActionUpdate))
	add(allow(RoleDoctor, ResourceOverride, ActionCreate, ActionRead, ActionList))
	add(allow(RoleDoctor, ResourcePatient, ActionRead, ActionList))
	add(allow(RoleDoctor, ResourceDoctor, ActionRead, ActionList))
	add(allow(RoleDoctor, ResourceUser, ActionUpdate))
	add(allow(RoleDoctor, ResourceBranch, ActionList))
	add(allow(RoleDoctor, ResourceLabTest, ActionList))
	add(allow(RoleDoctor, ResourceDashboard, ActionRead))

	// Patient: self service
	add(allow(RolePatient, ResourceAppointment, ActionCreate, ActionRead, ActionList))
	add(allow(RolePatient, ResourceDoctor, ActionRead, ActionList))
	add(allow(RolePatient, ResourceSchedule, ActionRead))
	add(allow(RolePatient, ResourcePatient, ActionUpdate))
	add(allow(RolePatient, ResourceUser, ActionUpdate))
	add(allow(RolePatient, ResourceBranch, ActionList))
	add(allow(RolePatient, ResourceLabTest, ActionList))
	add(allow(RolePatient, ResourceDashboard, ActionRead))

	return ps
}

// SeedDefaultPolicies loads DefaultPolicies into auth. It is idempotent.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()
	policies := DefaultPolicies()

	for _, p := range policies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			markPolicyHealth(false)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "resource", p.Object, "action", p.Action, "effect", p.Effect)
		}
	}

	markPolicyHealth(true)
	logger.Info("seeded default RBAC policies", "count", len(policies))
	return nil
}

// AssignAccountRole makes role the only hospital role userID holds in the
// sys domain. Called whenever a session is opened so the grouping table
// follows the user record.
func AssignAccountRole(ctx context.Context, auth IAuthorization, userID string, role Role) error {
	if _, ok := KnownRoles[role]; !ok {
		return ErrInvalidArgs
	}
	subject := GroupSubject(userID)

	current, err := auth.GetRolesForUserInDomain(ctx, subject, DomainSys)
	if err != nil {
		return err
	}
	for _, r := range current {
		if r == role {
			continue
		}
		if _, err := auth.RemoveRoleForUserInDomain(ctx, subject, r, DomainSys); err != nil {
			return err
		}
	}

	_, err = auth.AddRoleForUserInDomain(ctx, subject, role, DomainSys)
	return err
}
