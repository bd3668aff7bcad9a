package signal

import (
	"testing"
	"time"
)

func TestSimulatedInterruptRunsHandlersLIFO(t *testing.T) {
	if InterruptRequested() {
		t.Fatal("no interrupt has been requested yet")
	}

	var order []int
	done := make(chan struct{})
	AddInterruptHandler(func() {
		order = append(order, 1)
	})
	AddInterruptHandler(func() {
		order = append(order, 2)
		close(done)
	})

	SimulateInterrupt()
	select {
	case <-InterruptHandlersDone:
	case <-time.After(time.Second):
		t.Fatal("handlers did not run")
	}
	<-done

	if !InterruptRequested() {
		t.Fatal("interrupt must read as requested after the handlers ran")
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("handlers ran in order %v, want LIFO", order)
	}
}
