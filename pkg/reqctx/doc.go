// Package reqctx carries request-scoped data through context.Context.
//
// HTTP middleware sets a RequestMeta for every request and an Actor once the
// X-Session-Id header resolves to a user. Services and log statements read
// them back through the getters below:
//
//	meta, ok := reqctx.RequestMetaFromContext(ctx)
//	if actor, ok := reqctx.ActorFromContext(ctx); ok {
//	    logger.Info("...", "user_id", actor.UserID, "role", actor.Role)
//	}
//
// Context keys are unexported so nothing outside this package can collide
// with them.
package reqctx
