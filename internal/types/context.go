package types

import "context"

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	// DefaultTenantID and DefaultUserID are fallback identities for tests
	// and system-initiated work
	DefaultTenantID = "tenant_default"
	DefaultUserID   = "user_system"

	CtxRequestID ContextKey = "ctx_request_id"
	CtxTenantID  ContextKey = "ctx_tenant_id"
	CtxUserID    ContextKey = "ctx_user_id"

	// HeaderRequestID is echoed back on every response
	HeaderRequestID = "X-Request-ID"
	// HeaderTenantID carries the caller's tenant identity, resolved by the
	// upstream auth gateway. Portal handlers trust this header only.
	HeaderTenantID = "X-Tenant-ID"
	// HeaderUserID carries the authenticated actor id
	HeaderUserID = "X-User-ID"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetTenantID(ctx context.Context) string {
	if tenantID, ok := ctx.Value(CtxTenantID).(string); ok {
		return tenantID
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

// SetTenantID sets the tenant ID in the context
func SetTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, CtxTenantID, tenantID)
}

// SetUserID sets the user ID in the context
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}
