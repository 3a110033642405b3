package singleinstance

// One resident per user session owns a loopback TCP port. A second launch
// finds the port taken, asks the resident to show its overlay, and exits.
// When something other than an overlay holds the port, the launch runs
// without the lock.

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
)

const residentHost = "127.0.0.1"

// ErrAlreadyRunning is returned by Acquire when the port is already owned.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Instance is the resident's claim on the port.
type Instance struct {
	lis  net.Listener
	port int

	mu     sync.Mutex
	onShow func()
	closed bool
	done   chan struct{}
}

// Acquire binds 127.0.0.1:port and starts answering peers.
func Acquire(port int) (*Instance, error) {
	addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return nil, fmt.Errorf("%w (port %d): %v", ErrAlreadyRunning, port, err)
	}
	inst := &Instance{
		lis:  lis,
		port: lis.Addr().(*net.TCPAddr).Port,
		done: make(chan struct{}),
	}
	log.Printf("singleinstance: listening on %s", lis.Addr())
	go inst.acceptLoop()
	return inst, nil
}

// Claim takes the port for this process or hands off to the resident that
// owns it. handedOff is true when a resident answered, and the caller should
// exit. A nil Instance with handedOff false means the port is held by a
// foreign program and the caller runs unlocked.
func Claim(ctx context.Context, port int) (inst *Instance, handedOff bool) {
	inst, err := Acquire(port)
	if err == nil {
		return inst, false
	}
	if nerr := NotifyResident(ctx, port); nerr != nil {
		log.Printf("singleinstance: port %d held by another program (%v), running without single-instance lock", port, nerr)
		return nil, false
	}
	log.Printf("singleinstance: overlay already running on port %d, brought it forward", port)
	return nil, true
}

// Port returns the bound port.
func (i *Instance) Port() int { return i.port }

// SetOnShow registers the callback run when a later launch asks the resident
// to come forward. It is called from the accept goroutine.
func (i *Instance) SetOnShow(fn func()) {
	i.mu.Lock()
	i.onShow = fn
	i.mu.Unlock()
}

func (i *Instance) showCallback() func() {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.onShow
}

// Release closes the listener and waits for the accept loop to exit. It is
// safe to call more than once.
func (i *Instance) Release() error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil
	}
	i.closed = true
	i.mu.Unlock()

	err := i.lis.Close()
	<-i.done
	log.Printf("singleinstance: released port %d", i.port)
	return err
}
