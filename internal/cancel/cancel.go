package cancel

import "sync"

// Token is an injectable cooperative cancellation flag. One token may be
// shared by several operations (e.g. a playlist fetch followed by a batch
// download) so a single user action interrupts both. All methods are safe for
// concurrent use, and all are nil-safe so callers without a token pass nil.
type Token struct {
	mu        sync.Mutex
	signalled bool
}

// New creates an unsignalled token.
func New() *Token {
	return &Token{}
}

// Signal requests cancellation of in-flight work. Work is interrupted only at
// suspension points; there is no preemption.
func (t *Token) Signal() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.signalled = true
	t.mu.Unlock()
}

// Signalled reports whether cancellation was requested.
func (t *Token) Signalled() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.signalled
}

// Reset clears the flag. Operations call this at their start so a token can be
// reused across calls.
func (t *Token) Reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.signalled = false
	t.mu.Unlock()
}
