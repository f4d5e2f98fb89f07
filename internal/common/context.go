package common

import "context"

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID кладёт внутренний ID пользователя в контекст запроса.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext достаёт ID пользователя, положенный middleware идентификации.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
