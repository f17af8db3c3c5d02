package shared

import "context"

type actorContextKey struct{}

type tokenContextKey struct{}

// ContextWithActor stores the authenticated user's ID in context.
func ContextWithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorContextKey{}, userID)
}

// ActorFromContext extracts the authenticated user's ID from context.
// The second return is false for anonymous requests.
func ActorFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorContextKey{}).(int64)
	return id, ok
}

// ContextWithToken stores the raw session token in context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext extracts the raw session token from context.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}
