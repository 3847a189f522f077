package session

import "context"

type contextKey struct{}

// WithID attaches a session ID to the context so the upstream transport can
// resolve the caller's credentials.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, contextKey{}, sid)
}

// IDFromContext retrieves the session ID, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(contextKey{}).(string)
	return sid, ok && sid != ""
}
