package utils

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// PanicError carries a recovered panic value together with the stack
// captured at the recovery site.
type PanicError struct {
	Value      interface{}
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RecoverWithCallback converts an in-flight panic into a PanicError and
// hands it to callback. Deferred inside goroutines that have no error
// return to surface the failure through.
func RecoverWithCallback(callback func(error)) {
	r := recover()
	if r == nil {
		return
	}
	stack := string(debug.Stack())
	slog.Error("recovered from panic", "panic", r, "stack", stack)
	if callback != nil {
		callback(&PanicError{Value: r, StackTrace: stack})
	}
}

// SafeGo starts fn on a new goroutine. A panic in fn is recovered and
// routed to onError instead of crashing the process; a nil onError drops
// the error after logging.
func SafeGo(fn func(), onError func(error)) {
	go func() {
		defer RecoverWithCallback(onError)
		fn()
	}()
}
