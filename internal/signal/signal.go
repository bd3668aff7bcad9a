package signal

import (
	"os"
	"os/signal"
	"syscall"
)

// interruptChannel is used to receive SIGINT and SIGTERM signals.
var interruptChannel chan os.Signal

// addHandlerChannel is used to add an interrupt handler to the list of
// handlers to be invoked on shutdown signals.
var addHandlerChannel = make(chan func())

// InterruptHandlersDone is closed after all interrupt handlers run the first
// time an interrupt is signaled.
var InterruptHandlersDone = make(chan struct{})

var simulateInterruptChannel = make(chan struct{}, 1)

// SimulateInterrupt requests invoking the clean termination process by an
// internal component instead of a SIGINT.
func SimulateInterrupt() {
	select {
	case simulateInterruptChannel <- struct{}{}:
	default:
	}
}

// mainInterruptHandler listens for shutdown signals on the interruptChannel
// and invokes the registered handlers in LIFO order. It also listens for
// handler registration. It must be run as a goroutine.
func mainInterruptHandler() {
	var interruptCallbacks []func()
	invokeCallbacks := func() {
		for i := range interruptCallbacks {
			idx := len(interruptCallbacks) - 1 - i
			interruptCallbacks[idx]()
		}
		close(InterruptHandlersDone)
	}

	for {
		select {
		case <-interruptChannel:
			invokeCallbacks()
			return
		case <-simulateInterruptChannel:
			invokeCallbacks()
			return
		case handler := <-addHandlerChannel:
			interruptCallbacks = append(interruptCallbacks, handler)
		}
	}
}

// AddInterruptHandler adds a handler to call when a SIGINT or SIGTERM is
// received.
func AddInterruptHandler(handler func()) {
	if interruptChannel == nil {
		interruptChannel = make(chan os.Signal, 1)
		signal.Notify(interruptChannel, os.Interrupt, syscall.SIGTERM)
		go mainInterruptHandler()
	}
	addHandlerChannel <- handler
}

// InterruptRequested returns true once the shutdown handlers have been
// invoked. This simplifies early shutdown since the caller can use an if
// statement instead of a select.
func InterruptRequested() bool {
	select {
	case <-InterruptHandlersDone:
		return true
	default:
	}
	return false
}
