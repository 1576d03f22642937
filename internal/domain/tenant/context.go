package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Context is the request-scoped tenant identity. It is never persisted
// and never stored as shared process state; it is threaded through
// context.Context on every data-access path.
type Context struct {
	TenantID uuid.UUID
}

// NewContext returns a tenant context for the given tenant ID.
func NewContext(tenantID uuid.UUID) Context {
	return Context{TenantID: tenantID}
}

// Sentinel returns the unrestricted administrative context.
func Sentinel() Context {
	return Context{TenantID: SentinelTenantID}
}

// IsSentinel reports whether this context bypasses row filtering.
func (c Context) IsSentinel() bool {
	return c.TenantID == SentinelTenantID
}

type ctxKey struct{}

// WithContext attaches the tenant context to a context.Context.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, tc)
}

// FromContext extracts the tenant context. The second return value is
// false when no tenant context was attached.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(ctxKey{}).(Context)
	return tc, ok
}
