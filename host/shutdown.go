package host

import "sync"

// Process-wide cleanup registry. Hooks run in registration order,
// exactly once, whether the exit path is normal or a bus fault.
var shutdown struct {
	mu    sync.Mutex
	funcs []func()
	done  bool
}

// OnShutdown registers a cleanup hook.
func OnShutdown(fn func()) {
	shutdown.mu.Lock()
	defer shutdown.mu.Unlock()
	shutdown.funcs = append(shutdown.funcs, fn)
}

// RunShutdown runs all registered hooks. Subsequent calls are no-ops.
func RunShutdown() {
	shutdown.mu.Lock()
	funcs := shutdown.funcs
	done := shutdown.done
	shutdown.done = true
	shutdown.mu.Unlock()

	if done {
		return
	}
	for _, fn := range funcs {
		fn()
	}
}
