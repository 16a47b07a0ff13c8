package reqctx

import "context"

// Actor is the authenticated caller behind a request.
type Actor struct {
	UserID    string
	Role      string
	SessionID string
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, keyActor, a)
}

// ActorFromContext returns the caller, or false for anonymous requests.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(keyActor).(Actor)
	return a, ok
}

// LogAttrs returns key/value pairs identifying the request for slog calls.
func LogAttrs(ctx context.Context) []any {
	var attrs []any
	if id := RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	if a, ok := ActorFromContext(ctx); ok {
		attrs = append(attrs, "user_id", a.UserID, "role", a.Role)
	}
	return attrs
}
