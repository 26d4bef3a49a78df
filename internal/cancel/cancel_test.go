package cancel

import (
	"sync"
	"testing"
)

func TestToken_SignalAndReset(t *testing.T) {
	token := New()

	if token.Signalled() {
		t.Error("new token reports signalled")
	}

	token.Signal()
	if !token.Signalled() {
		t.Error("token not signalled after Signal()")
	}

	token.Reset()
	if token.Signalled() {
		t.Error("token still signalled after Reset()")
	}
}

func TestToken_NilSafe(t *testing.T) {
	var token *Token
	token.Signal()
	token.Reset()
	if token.Signalled() {
		t.Error("nil token reports signalled")
	}
}

func TestToken_ConcurrentAccess(t *testing.T) {
	token := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			token.Signal()
		}()
		go func() {
			defer wg.Done()
			token.Signalled()
		}()
	}
	wg.Wait()
	if !token.Signalled() {
		t.Error("token not signalled after concurrent signals")
	}
}
