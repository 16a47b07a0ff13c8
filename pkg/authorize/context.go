package authorize

import (
	"context"
	"errors"

	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
)

var ErrNoSubjectInContext = errors.New("no subject found in context")

// SubjectFromContext returns the signed-in user as a Casbin subject.
func SubjectFromContext(ctx context.Context) (GroupSubject, error) {
	a, ok := reqctx.ActorFromContext(ctx)
	if !ok || a.UserID == "" {
		return "", ErrNoSubjectInContext
	}
	return GroupSubject(a.UserID), nil
}

// Check enforces (resource, action) in the sys domain for the caller in ctx.
func Check(ctx context.Context, auth IAuthorization, obj Resource, act Action) error {
	subject, err := SubjectFromContext(ctx)
	if err != nil {
		return ErrForbidden
	}
	return auth.MustEnforce(ctx, subject, DomainSys, obj, act)
}
