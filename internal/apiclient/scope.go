package apiclient

import "context"

// Scope ties outbound calls to the lifetime of their owner.
// Closing the scope cancels every context obtained from Bind.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScope() *Scope {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scope{ctx: ctx, cancel: cancel}
}

// Bind derives a context canceled by either parent or the scope.
func (s *Scope) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if s.Closed() {
		cancel()
		return ctx, cancel
	}
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *Scope) Close() { s.cancel() }

func (s *Scope) Closed() bool { return s.ctx.Err() != nil }
