// Package wininput defines the OS input injection layer.
package wininput

import (
	"sync"
)

// Channel serializes access to an Injector. Every transaction passed to Do
// runs while holding the channel lock, so a click or key chord issued by
// one caller is never interleaved with events from another.
type Channel struct {
	mu     sync.Mutex
	inj    Injector
	closed bool
}

// Open wraps an injector in a channel.
func Open(inj Injector) *Channel {
	return &Channel{inj: inj}
}

// Do runs fn with exclusive access to the underlying injector.
func (c *Channel) Do(fn func(Injector) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return fn(c.inj)
}

// CursorPos reports the cursor position when the injector can query it.
func (c *Channel) CursorPos() (int, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, 0, false
	}
	cp, ok := c.inj.(CursorProvider)
	if !ok {
		return 0, 0, false
	}
	return cp.CursorPos()
}

// Close releases the channel. Later transactions fail with ErrClosed.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

var (
	sharedOnce sync.Once
	sharedCh   *Channel
	sharedErr  error
)

// Shared returns the process-wide channel for the platform injector. The
// injector is acquired on first use; the caller that owns the process
// lifetime closes it at shutdown.
func Shared() (*Channel, error) {
	sharedOnce.Do(func() {
		inj, err := NewInjector()
		sharedCh = Open(inj)
		sharedErr = err
	})
	return sharedCh, sharedErr
}
