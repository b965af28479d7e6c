package cli

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	atexitHandlers []func()
	atexitMutex    sync.Mutex
	signalOnce     sync.Once
)

// handleSignals waits until it receives a terminating signal from the OS, at which point it executes any
// functions previously registered with AtExit, and then exits the process.
func handleSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	sig := <-ch
	log.Info("Received signal %s", sig)
	// Allow a second signal to terminate the process regardless
	done := make(chan struct{})
	go func() {
		RunAtExit()
		close(done)
	}()
	select {
	case <-done:
		log.Info("All exit handlers run, shutting down process")
	case sig := <-ch:
		log.Warning("Received second signal %s, aborting", sig)
	}
	exit(sig)
}

// AtExit registers a function to be run when the process is killed by a signal.
// It returns a function that deregisters it again, which callers should defer once
// whatever the handler cleans up has been dealt with normally.
// Note that this is best-effort; we cannot guarantee that there are not other ways of exiting that
// bypass any mechanism we use here.
func AtExit(f func()) (cancel func()) {
	signalOnce.Do(func() { go handleSignals() })
	atexitMutex.Lock()
	defer atexitMutex.Unlock()
	atexitHandlers = append(atexitHandlers, f)
	idx := len(atexitHandlers) - 1
	return func() {
		atexitMutex.Lock()
		defer atexitMutex.Unlock()
		atexitHandlers[idx] = nil
	}
}

// RunAtExit runs all currently registered exit handlers, most recently registered first.
func RunAtExit() {
	atexitMutex.Lock()
	handlers := make([]func(), len(atexitHandlers))
	copy(handlers, atexitHandlers)
	atexitMutex.Unlock()
	for i := len(handlers) - 1; i >= 0; i-- {
		if h := handlers[i]; h != nil {
			h()
		}
	}
}

// exit kills the process with an exit code suitable for the given signal.
func exit(sig os.Signal) {
	if s, ok := sig.(syscall.Signal); ok {
		os.Exit(128 + int(s))
	}
	os.Exit(1)
}
