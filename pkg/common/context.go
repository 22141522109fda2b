package common

import (
	"context"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUserSub   ContextKey = "user_sub"
	ContextKeyUserEmail ContextKey = "user_email"
)

// WithUserSub adds the caller's verified subject identifier to the context
func WithUserSub(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ContextKeyUserSub, sub)
}

// GetUserSub extracts the caller's subject identifier from the context
func GetUserSub(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(ContextKeyUserSub).(string)
	return sub, ok && sub != ""
}

// WithUserEmail adds the caller's email claim to the context
func WithUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextKeyUserEmail, email)
}

// GetUserEmail extracts the caller's email claim from the context
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextKeyUserEmail).(string)
	return email, ok
}
