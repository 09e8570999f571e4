// Package player provides the per-room player registry and the outbound
// event channel handles used to push serialized events to clients.
package player

import (
	"fmt"
	"sync"
)

// DefaultConnBuffer is the outbound event buffer size per connection.
const DefaultConnBuffer = 16

// Conn routes serialized event payloads to a Go channel, bridging the room
// core to the WebSocket write pump.
type Conn struct {
	events chan []byte
	mu     sync.Mutex
	closed bool
}

// NewConn creates a Conn with the given buffer size.
//
// Postcondition: Returns a Conn with an open events channel.
func NewConn(bufferSize int) *Conn {
	if bufferSize <= 0 {
		bufferSize = DefaultConnBuffer
	}
	return &Conn{events: make(chan []byte, bufferSize)}
}

// Push enqueues data for delivery to the client.
//
// Postcondition: Data is enqueued, or an error if the conn is closed or full.
// A full buffer is an error rather than a block so a stalled client cannot
// stall room-wide dispatch.
func (c *Conn) Push(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("conn is closed")
	}
	select {
	case c.events <- data:
		return nil
	default:
		return fmt.Errorf("conn event buffer full")
	}
}

// Events returns the read-only events channel. The write pump drains this
// channel to send frames to the client.
func (c *Conn) Events() <-chan []byte {
	return c.events
}

// Close marks the conn as closed and closes the events channel.
//
// Postcondition: The events channel is closed. Further Push calls return an error.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
	}
	return nil
}

// IsClosed reports whether the conn has been closed.
func (c *Conn) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
