// Package throttle limits repeated failed logins per username.
package throttle

import "context"

type Limiter interface {
	// Blocked reports whether key has used up its attempts.
	Blocked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Noop never blocks. It is used when no Redis is configured.
type Noop struct{}

func (Noop) Blocked(context.Context, string) (bool, error) { return false, nil }
func (Noop) Fail(context.Context, string) error            { return nil }
func (Noop) Reset(context.Context, string) error           { return nil }
