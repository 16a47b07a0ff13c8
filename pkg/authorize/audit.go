package authorize

import (
	"context"
	"log/slog"
	"time"

	casbin "github.com/casbin/casbin/v2"

	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
)

// Audit event names.
const (
	eventDecision         = "authz_decision"
	eventRoleChange       = "authz_role_change"
	eventPermissionChange = "authz_permission_change"
)

// AuditedAuthorization writes an access trail around another IAuthorization.
// Each entry names the acting user from the request context, the subject the
// check was made for, and the resource touched. Denials log at warn.
type AuditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{inner: inner, logger: logger}
}

func (a *AuditedAuthorization) Raw() *casbin.DistributedEnforcer { return a.inner.Raw() }

func (a *AuditedAuthorization) Enforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, subject, domain, object, action)

	level := slog.LevelInfo
	if !allowed {
		level = slog.LevelWarn
	}
	a.record(ctx, eventDecision, level, err, subject,
		slog.String("domain", string(domain)),
		slog.String("resource", string(object)),
		slog.String("action", string(action)),
		slog.Bool("allowed", allowed),
		slog.Duration("took", time.Since(start)),
	)
	return allowed, err
}

func (a *AuditedAuthorization) MustEnforce(ctx context.Context, subject GroupSubject, domain Domain, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, domain, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *AuditedAuthorization) AddRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	changed, err := a.inner.AddRoleForUserInDomain(ctx, subject, role, domain)
	a.roleChange(ctx, "grant", subject, role, domain, changed, err)
	return changed, err
}

func (a *AuditedAuthorization) RemoveRoleForUserInDomain(ctx context.Context, subject GroupSubject, role Role, domain Domain) (bool, error) {
	changed, err := a.inner.RemoveRoleForUserInDomain(ctx, subject, role, domain)
	a.roleChange(ctx, "revoke", subject, role, domain, changed, err)
	return changed, err
}

func (a *AuditedAuthorization) GetRolesForUserInDomain(ctx context.Context, subject GroupSubject, domain Domain) ([]Role, error) {
	return a.inner.GetRolesForUserInDomain(ctx, subject, domain)
}

func (a *AuditedAuthorization) AddPermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	changed, err := a.inner.AddPermission(ctx, role, domain, object, action, effect)
	a.permissionChange(ctx, "grant", PermissionPolicy{role, domain, object, action, effect}, changed, err)
	return changed, err
}

func (a *AuditedAuthorization) RemovePermission(ctx context.Context, role Role, domain Domain, object Resource, action Action, effect PolicyEffect) (bool, error) {
	changed, err := a.inner.RemovePermission(ctx, role, domain, object, action, effect)
	a.permissionChange(ctx, "revoke", PermissionPolicy{role, domain, object, action, effect}, changed, err)
	return changed, err
}

func (a *AuditedAuthorization) roleChange(ctx context.Context, op string, subject GroupSubject, role Role, domain Domain, changed bool, err error) {
	a.record(ctx, eventRoleChange, slog.LevelInfo, err, subject,
		slog.String("op", op),
		slog.String("granted_role", string(role)),
		slog.String("domain", string(domain)),
		slog.Bool("changed", changed),
	)
}

// Seeding runs without an actor, so permission changes usually carry only
// the policy row.
func (a *AuditedAuthorization) permissionChange(ctx context.Context, op string, p PermissionPolicy, changed bool, err error) {
	a.record(ctx, eventPermissionChange, slog.LevelDebug, err, "",
		slog.String("op", op),
		slog.String("policy_role", string(p.Subject)),
		slog.String("domain", string(p.Domain)),
		slog.String("resource", string(p.Object)),
		slog.String("action", string(p.Action)),
		slog.String("effect", string(p.Effect)),
		slog.Bool("changed", changed),
	)
}

// record emits one audit line. Errors always log at error level.
func (a *AuditedAuthorization) record(ctx context.Context, event string, level slog.Level, err error, subject GroupSubject, attrs ...slog.Attr) {
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	if !a.logger.Enabled(ctx, level) {
		return
	}

	if subject != "" {
		attrs = append(attrs, slog.String("subject", string(subject)))
	}
	if actor, ok := reqctx.ActorFromContext(ctx); ok {
		attrs = append(attrs, slog.Group("actor",
			slog.String("user_id", actor.UserID),
			slog.String("role", actor.Role),
			slog.String("session_id", actor.SessionID),
		))
		if subject != "" && string(subject) != actor.UserID {
			attrs = append(attrs, slog.Bool("on_behalf", true))
		}
	}
	if id := reqctx.RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}

	a.logger.LogAttrs(ctx, level, event, attrs...)
}
