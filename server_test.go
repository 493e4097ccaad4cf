package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-coordinator/code"
)

func newTestServer(rng code.Range) *Server {
	return NewServer(NewConnections(), code.NewGenerator(rng), 1)
}

func TestCreateRoomUsesRange(t *testing.T) {
	s := newTestServer(code.Default())

	room, roomID, err := s.CreateRoom()
	require.NoError(t, err)
	assert.Equal(t, roomID, room.ID())
	assert.True(t, code.Default().Contains(roomID))

	found, exists := s.GetRoom(roomID)
	require.True(t, exists)
	assert.Same(t, room, found)
}

func TestCreateRoomNeverReusesLiveID(t *testing.T) {
	rng := code.Range{Min: 1, Max: 16}
	s := newTestServer(rng)
	r := rand.New(rand.NewSource(1))
	live := make(map[int]bool)

	for i := 0; i < 10000; i++ {
		if len(live) == rng.Size() || (len(live) > 0 && r.Intn(3) == 0) {
			for roomID := range live {
				s.Evict(roomID)
				delete(live, roomID)
				break
			}
			continue
		}
		_, roomID, err := s.CreateRoom()
		require.NoError(t, err)
		require.False(t, live[roomID], "id %d issued while still live", roomID)
		require.True(t, rng.Contains(roomID))
		live[roomID] = true
		require.Equal(t, len(live), s.Len())
	}
}

func TestCreateRoomCapacityExceeded(t *testing.T) {
	rng := code.Range{Min: 1000, Max: 1009}
	s := newTestServer(rng)
	for i := 0; i < rng.Size(); i++ {
		_, _, err := s.CreateRoom()
		require.NoError(t, err)
	}
	assert.True(t, s.Full())

	_, _, err := s.CreateRoom()
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	s.Evict(1004)
	_, roomID, err := s.CreateRoom()
	require.NoError(t, err)
	assert.Equal(t, 1004, roomID)
}

func TestCreateOrJoin(t *testing.T) {
	s := newTestServer(code.Default())
	roomID := 7

	created, id, err := s.CreateOrJoin(&roomID)
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	joined, id, err := s.CreateOrJoin(&roomID)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Same(t, created, joined)

	fresh, id, err := s.CreateOrJoin(nil)
	require.NoError(t, err)
	assert.NotSame(t, created, fresh)
	assert.True(t, code.Default().Contains(id))
}

func TestJoinUnknownRoom(t *testing.T) {
	s := newTestServer(code.Default())

	_, err := s.Join(4242)
	assert.ErrorIs(t, err, ErrUnknownRoom)
}

func TestTerminatedRoomIsEvicted(t *testing.T) {
	s := newTestServer(code.Default())
	var evicted []int
	s.OnEvict(func(roomID int) { evicted = append(evicted, roomID) })

	room, roomID, err := s.CreateRoom()
	require.NoError(t, err)
	_, err = room.Join("A")
	require.NoError(t, err)

	room.Terminate("A")

	_, err = s.Join(roomID)
	assert.ErrorIs(t, err, ErrUnknownRoom)
	assert.Equal(t, []int{roomID}, evicted)

	s.Evict(roomID)
	assert.Equal(t, []int{roomID}, evicted, "second evict is a no-op")
}
