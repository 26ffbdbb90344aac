// Package appctx carries per-operation metadata through context: a request
// id for log correlation and the authenticated identity set by the view
// layer.
package appctx

import (
	"context"

	"github.com/google/uuid"

	"github.com/avoronin/inkpost/internal/model"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	identityKey
)

// WithRequestID attaches a fresh request id to the context.
func WithRequestID(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestIDKey, uuid.NewString())
}

// RequestID returns the request id, or "" if none was set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithIdentity attaches the authenticated identity to the context.
func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Identity returns the identity from the context and whether one was set.
func Identity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}
