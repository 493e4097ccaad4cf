package main

import (
	"sync"

	"github.com/google/uuid"
)

// Connection is the outbound side of one websocket session. Messages pushed
// to it are written to the socket by the session's writer goroutine.
type Connection struct {
	ClientID string
	Token    uuid.UUID

	outbox    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewConnection(clientID string, outboxSize int) *Connection {
	return &Connection{
		ClientID: clientID,
		Token:    uuid.New(),
		outbox:   make(chan []byte, outboxSize),
		done:     make(chan struct{}),
	}
}

func (c *Connection) Outbox() <-chan []byte {
	return c.outbox
}

func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Close marks the connection as gone. The outbox is never closed so a
// concurrent push can not panic.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Connection) push(message []byte) error {
	select {
	case <-c.done:
		return newChannelUnavailableError(c.ClientID, "connection closed")
	default:
	}
	select {
	case c.outbox <- message:
		return nil
	default:
		return newChannelUnavailableError(c.ClientID, "outbox full")
	}
}

// Connections maps client ids to their live connection. It is shared by
// every room and every session.
type Connections struct {
	byClient map[string]*Connection
	lock     sync.RWMutex
}

func NewConnections() *Connections {
	return &Connections{byClient: make(map[string]*Connection)}
}

// Register stores conn under its client id and returns the connection it
// superseded, if any.
func (c *Connections) Register(conn *Connection) *Connection {
	c.lock.Lock()
	defer c.lock.Unlock()
	previous := c.byClient[conn.ClientID]
	c.byClient[conn.ClientID] = conn
	return previous
}

func (c *Connections) Unregister(clientID string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.byClient, clientID)
}

// Release removes conn only if it is still the registered connection for
// its client id.
func (c *Connections) Release(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	if current, ok := c.byClient[conn.ClientID]; ok && current == conn {
		delete(c.byClient, conn.ClientID)
		return true
	}
	return false
}

func (c *Connections) Get(clientID string) (*Connection, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	conn, ok := c.byClient[clientID]
	return conn, ok
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.byClient)
}

// SendTo never blocks. It fails with ErrChannelUnavailable when the client
// is unknown or its connection can not take the message.
func (c *Connections) SendTo(clientID string, message []byte) error {
	conn, ok := c.Get(clientID)
	if !ok {
		return newChannelUnavailableError(clientID, "not registered")
	}
	return conn.push(message)
}
