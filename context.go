package cep47

import "context"

// Authenticator provides the identity of the principal performing the
// current call. The registry trusts the returned address as-is; any signature
// or session verification happened before.
type Authenticator interface {
	// Caller returns the authenticated principal, or nil when the context
	// carries none.
	Caller(ctx context.Context) Address
}

type contextKey int

const contextKeyCaller contextKey = iota

// WithCaller stores the caller address in the context. Use together with
// CtxAuth.
func WithCaller(ctx context.Context, caller Address) context.Context {
	return context.WithValue(ctx, contextKeyCaller, caller)
}

// CtxAuth is an Authenticator that reads the caller identity from the
// context as set by WithCaller. It is the default way of plugging a host
// environment's authentication into the registry.
type CtxAuth struct{}

var _ Authenticator = CtxAuth{}

func (CtxAuth) Caller(ctx context.Context) Address {
	val := ctx.Value(contextKeyCaller)
	if val == nil {
		return nil
	}
	return val.(Address)
}
