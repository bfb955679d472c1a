package utils

import (
	"errors"
	"testing"
	"time"
)

func TestPanicErrorMessage(t *testing.T) {
	err := &PanicError{Value: "boom"}
	if got := err.Error(); got != "panic: boom" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestRecoverWithCallback(t *testing.T) {
	t.Run("panic reaches the callback", func(t *testing.T) {
		var got error
		func() {
			defer RecoverWithCallback(func(err error) { got = err })
			panic("boom")
		}()

		var panicErr *PanicError
		if !errors.As(got, &panicErr) {
			t.Fatalf("expected PanicError, got %v", got)
		}
		if panicErr.Value != "boom" {
			t.Errorf("unexpected panic value %v", panicErr.Value)
		}
		if panicErr.StackTrace == "" {
			t.Error("expected a captured stack")
		}
	})

	t.Run("nil callback still recovers", func(t *testing.T) {
		func() {
			defer RecoverWithCallback(nil)
			panic("boom")
		}()
	})

	t.Run("no panic means no callback", func(t *testing.T) {
		called := false
		func() {
			defer RecoverWithCallback(func(error) { called = true })
		}()
		if called {
			t.Error("callback invoked without a panic")
		}
	})
}

func TestSafeGo(t *testing.T) {
	t.Run("runs the function", func(t *testing.T) {
		done := make(chan struct{})
		SafeGo(func() { close(done) }, nil)

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("goroutine never ran")
		}
	})

	t.Run("panic is routed to the error handler", func(t *testing.T) {
		errCh := make(chan error, 1)
		SafeGo(func() { panic("boom") }, func(err error) { errCh <- err })

		select {
		case err := <-errCh:
			var panicErr *PanicError
			if !errors.As(err, &panicErr) {
				t.Fatalf("expected PanicError, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("error handler never invoked")
		}
	})
}
