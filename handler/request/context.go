package request

import (
	"context"
)

type key int

const (
	userKey key = iota
)

// ContextX context carrying the authenticated user
type ContextX struct {
	context.Context
}

// NewContext context extension
func NewContext(ctx context.Context) ContextX {
	return ContextX{
		Context: ctx,
	}
}

// WithUser context with the authenticated user id
func (c ContextX) WithUser(user string) context.Context {
	return context.WithValue(c, userKey, user)
}

// GetUser authenticated user id, false for anonymous requests
func (c ContextX) GetUser() (string, bool) {
	user, ok := c.Value(userKey).(string)
	return user, ok && user != ""
}

// User authenticated user id of ctx, empty for anonymous requests
func User(ctx context.Context) string {
	user, _ := NewContext(ctx).GetUser()
	return user
}
