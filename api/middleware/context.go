package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/advanced-shipping/pkg/enums"
)

// Actor is the authenticated caller behind an admin or order request.
type Actor struct {
	UserID uuid.UUID
	Role   enums.ActorRole
}

type actorKey struct{}

// WithActor injects the authenticated actor into the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext reports the actor set by Auth, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
