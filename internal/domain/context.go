package domain

import "context"

type authContextKey struct{}

type clientContextKey struct{}

// WithAuthContext stores the resolved member context in the request context.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, ac)
}

// AuthContextFrom extracts the resolved member context, if any.
func AuthContextFrom(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey{}).(*AuthContext)
	return ac, ok
}

// WithClientContext stores the resolved portal-client context.
func WithClientContext(ctx context.Context, cc *ClientContext) context.Context {
	return context.WithValue(ctx, clientContextKey{}, cc)
}

// ClientContextFrom extracts the resolved portal-client context, if any.
func ClientContextFrom(ctx context.Context) (*ClientContext, bool) {
	cc, ok := ctx.Value(clientContextKey{}).(*ClientContext)
	return cc, ok
}
