package main

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToRegisteredConnection(t *testing.T) {
	c := NewConnections()
	conn := NewConnection("A", 4)
	assert.Nil(t, c.Register(conn))

	require.NoError(t, c.SendTo("A", []byte("hello")))
	assert.Equal(t, []byte("hello"), <-conn.Outbox())
}

func TestSendToUnavailable(t *testing.T) {
	c := NewConnections()

	assert.ErrorIs(t, c.SendTo("ghost", []byte("x")), ErrChannelUnavailable)

	closed := NewConnection("closed", 4)
	c.Register(closed)
	closed.Close()
	assert.ErrorIs(t, c.SendTo("closed", []byte("x")), ErrChannelUnavailable)

	full := NewConnection("full", 1)
	c.Register(full)
	require.NoError(t, c.SendTo("full", []byte("1")))
	assert.ErrorIs(t, c.SendTo("full", []byte("2")), ErrChannelUnavailable)
}

func TestRegisterSupersedes(t *testing.T) {
	c := NewConnections()
	first := NewConnection("A", 4)
	second := NewConnection("A", 4)
	c.Register(first)

	assert.Same(t, first, c.Register(second))
	assert.NotEqual(t, first.Token, second.Token)

	assert.False(t, c.Release(first), "a superseded connection must not remove its successor")
	current, ok := c.Get("A")
	require.True(t, ok)
	assert.Same(t, second, current)

	assert.True(t, c.Release(second))
	assert.Equal(t, 0, c.Len())
}

func TestUnregisterIsIdempotent(t *testing.T) {
	c := NewConnections()
	c.Register(NewConnection("A", 1))

	c.Unregister("A")
	c.Unregister("A")
	c.Unregister("never")
	assert.Equal(t, 0, c.Len())
}

func TestConnectionsConcurrentAccess(t *testing.T) {
	c := NewConnections()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("client-%d", i)
			conn := NewConnection(id, 8)
			c.Register(conn)
			for j := 0; j < 8; j++ {
				c.SendTo(id, []byte("x"))
				c.SendTo(fmt.Sprintf("client-%d", (i+1)%50), []byte("y"))
			}
			conn.Close()
			c.Release(conn)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, c.Len())
}
