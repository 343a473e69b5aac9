package registry

import (
	"go.uber.org/zap"

	"github.com/wippyai/rtti-runtime/descriptor"
	rtterrors "github.com/wippyai/rtti-runtime/errors"
)

// CollisionFunc picks the canonical descriptor when two nominal types share
// an id. Returning nil reports the collision as an error.
type CollisionFunc func(existing, incoming *descriptor.Type) *descriptor.Type

// FailOnCollision is the default collision callback. It aborts with a fatal
// error naming both candidates.
func FailOnCollision(existing, incoming *descriptor.Type) *descriptor.Type {
	rtterrors.Fail("type collision between %s/%s and %s/%s",
		existing.Name, existing.MangledName, incoming.Name, incoming.MangledName)
	return nil
}

// KeepFirst keeps the descriptor that was registered first.
func KeepFirst(existing, _ *descriptor.Type) *descriptor.Type { return existing }

// KeepLast replaces the existing descriptor with the incoming one.
func KeepLast(_, incoming *descriptor.Type) *descriptor.Type { return incoming }

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by this registry instead of the package
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithCollisionCallback sets the collision policy.
func WithCollisionCallback(fn CollisionFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.onCollision = fn
		}
	}
}
