package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// IAuthorization is what handlers and services check permissions through.
// Every hospital rule lives in the sys domain; the domain argument is kept so
// wildcard rows can still be expressed.
type IAuthorization interface {
	Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error)
	// MustEnforce returns ErrForbidden when Enforce says no.
	MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error

	// g rows: user id -> hospital role.
	AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error)
	RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error)
	GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error)

	// p rows: role, domain, resource, action, effect.
	AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)
	RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error)

	Raw() *casbin.DistributedEnforcer
}

// Authorization checks hospital permissions against a casbin enforcer.
type Authorization struct {
	enforcer *casbin.DistributedEnforcer
	// adminBypass lets RoleAdmin members through without policy evaluation.
	adminBypass bool
}

// NewAuthorization wraps e. Enforcers backed by an adapter reload their
// policy; adapter-less ones get their role links rebuilt so an enforcer
// assembled outside NewEnforcer can still answer g() lookups.
func NewAuthorization(e *casbin.DistributedEnforcer, cfg Config) (IAuthorization, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: enforcer is nil", ErrInvalidArgs)
	}

	if e.GetAdapter() != nil {
		if err := e.LoadPolicy(); err != nil {
			return nil, fmt.Errorf("load policy: %w", err)
		}
	} else if err := e.BuildRoleLinks(); err != nil {
		return nil, fmt.Errorf("build role links: %w", err)
	}

	return &Authorization{enforcer: e, adminBypass: cfg.AdminBypass}, nil
}

func (a *Authorization) Raw() *casbin.DistributedEnforcer { return a.enforcer }

// ----------------------------
// Decisions
// ----------------------------

func (a *Authorization) Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	if subject == "" {
		return false, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	if err := checkTarget(object, action); err != nil {
		return false, err
	}

	if a.adminBypass && a.isAdmin(subject) {
		return true, nil
	}

	return a.enforcer.Enforce(string(subject), string(domain), string(object), string(action))
}

func (a *Authorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, domain, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *Authorization) isAdmin(subject GroupSubject) bool {
	return a.enforcer.HasGroupingPolicy(string(subject), string(RoleAdmin), string(DomainSys))
}

// ----------------------------
// Role links
// ----------------------------

func (a *Authorization) AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	if err := checkLink(subject, role, domain); err != nil {
		return false, err
	}
	return a.enforcer.AddGroupingPolicy(string(subject), string(role), string(domain))
}

// RemoveRoleForUserInDomain accepts roles outside KnownRoles so stale links
// can always be cleaned up.
func (a *Authorization) RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	if subject == "" || role == "" {
		return false, fmt.Errorf("%w: empty subject/role", ErrInvalidArgs)
	}
	if err := checkDomain(domain); err != nil {
		return false, err
	}
	return a.enforcer.RemoveGroupingPolicy(string(subject), string(role), string(domain))
}

func (a *Authorization) GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if err := checkDomain(domain); err != nil {
		return nil, err
	}

	names := a.enforcer.GetRolesForUserInDomain(string(subject), string(domain))
	roles := make([]Role, len(names))
	for i, n := range names {
		roles[i] = Role(n)
	}
	return roles, nil
}

// ----------------------------
// Permission rows
// ----------------------------

func (a *Authorization) AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	p := PermissionPolicy{Subject: role, Domain: domain, Object: object, Action: action, Effect: effect}
	if err := checkPermission(p, true); err != nil {
		return false, err
	}
	return a.enforcer.AddPolicy(p.row()...)
}

func (a *Authorization) RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	p := PermissionPolicy{Subject: role, Domain: domain, Object: object, Action: action, Effect: effect}
	if err := checkPermission(p, false); err != nil {
		return false, err
	}
	return a.enforcer.RemovePolicy(p.row()...)
}

// row orders p as the model's policy_definition: sub, dom, obj, act, eft.
func (p PermissionPolicy) row() []any {
	return []any{string(p.Subject), string(p.Domain), string(p.Object), string(p.Action), string(p.Effect)}
}

// ----------------------------
// Validation
// ----------------------------

func checkDomain(d Domain) error {
	if !IsValidDomain(d) {
		return fmt.Errorf("%w: invalid domain: %q", ErrInvalidArgs, d)
	}
	return nil
}

func checkTarget(obj Resource, act Action) error {
	if obj == "" || act == "" {
		return fmt.Errorf("%w: empty resource/action", ErrInvalidArgs)
	}
	if _, ok := KnownResources[obj]; !ok && obj != WildcardResource {
		return fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, obj)
	}
	if _, ok := KnownActions[act]; !ok && act != WildcardAction {
		return fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, act)
	}
	return nil
}

func checkRole(r Role) error {
	if _, ok := KnownRoles[r]; !ok && r != WildcardRole {
		return fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, r)
	}
	return nil
}

func checkLink(subject GroupSubject, role Role, domain Domain) error {
	if subject == "" || role == "" {
		return fmt.Errorf("%w: empty subject/role", ErrInvalidArgs)
	}
	if err := checkRole(role); err != nil {
		return err
	}
	return checkDomain(domain)
}

// checkPermission validates a p row. Removal skips the known-value checks.
func checkPermission(p PermissionPolicy, strict bool) error {
	if p.Subject == "" || p.Effect == "" {
		return fmt.Errorf("%w: empty permission fields", ErrInvalidArgs)
	}
	if err := checkDomain(p.Domain); err != nil {
		return err
	}
	if !strict {
		if p.Object == "" || p.Action == "" {
			return fmt.Errorf("%w: empty permission fields", ErrInvalidArgs)
		}
		return nil
	}
	if err := checkRole(p.Subject); err != nil {
		return err
	}
	if err := checkTarget(p.Object, p.Action); err != nil {
		return err
	}
	if p.Effect != EffectAllow && p.Effect != EffectDeny {
		return fmt.Errorf("%w: invalid effect: %q", ErrInvalidArgs, p.Effect)
	}
	return nil
}
