package main

import (
	"sync"

	"room-coordinator/code"
)

// randomAttempts bounds the random draws per range slot before CreateRoom
// falls back to scanning.
const randomAttempts = 4

// Server owns every live room, keyed by room id.
type Server struct {
	rooms       map[int]*Room
	connections *Connections
	codes       *code.Generator
	roomOptions RoomOptions
	onEvict     []func(roomID int)
	lock        sync.RWMutex
}

func NewServer(connections *Connections, codes *code.Generator, minPlayers int) *Server {
	s := &Server{
		rooms:       make(map[int]*Room),
		connections: connections,
		codes:       codes,
	}
	s.roomOptions = RoomOptions{MinPlayers: minPlayers, OnClose: s.Evict}
	return s
}

// OnEvict registers a hook that runs after a room is removed.
func (s *Server) OnEvict(hook func(roomID int)) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.onEvict = append(s.onEvict, hook)
}

func (s *Server) GetRoom(roomID int) (*Room, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	room, exists := s.rooms[roomID]
	return room, exists
}

func (s *Server) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.rooms)
}

// Full reports whether every id in the range is taken.
func (s *Server) Full() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.rooms) >= s.codes.Range().Size()
}

// Join resolves an existing room. Missing rooms are not created.
func (s *Server) Join(roomID int) (*Room, error) {
	room, exists := s.GetRoom(roomID)
	if !exists {
		return nil, newUnknownRoomError(roomID)
	}
	return room, nil
}

// CreateOrJoin returns the room registered under roomID, creating it when
// absent. A nil roomID always creates a room under a fresh id.
func (s *Server) CreateOrJoin(roomID *int) (*Room, int, error) {
	if roomID == nil {
		return s.CreateRoom()
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if room, exists := s.rooms[*roomID]; exists {
		return room, *roomID, nil
	}
	room := s.newRoomUnsafe(*roomID)
	return room, *roomID, nil
}

// CreateRoom registers a room under an id no live room holds. It fails with
// ErrCapacityExceeded when the whole id range is taken.
func (s *Server) CreateRoom() (*Room, int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	rng := s.codes.Range()
	if len(s.rooms) < rng.Size() {
		for i := 0; i < randomAttempts*rng.Size() && i < randomAttempts*1024; i++ {
			roomID := s.codes.Random()
			if _, taken := s.rooms[roomID]; !taken {
				return s.newRoomUnsafe(roomID), roomID, nil
			}
		}
	}
	roomID, ok := s.codes.FirstFree(func(c int) bool {
		_, taken := s.rooms[c]
		return taken
	})
	if !ok {
		return nil, 0, newCapacityExceededError(rng.Min, rng.Max)
	}
	return s.newRoomUnsafe(roomID), roomID, nil
}

// Evict removes the room if present. Calling it twice is safe.
func (s *Server) Evict(roomID int) {
	s.lock.Lock()
	_, exists := s.rooms[roomID]
	delete(s.rooms, roomID)
	hooks := s.onEvict
	s.lock.Unlock()
	if !exists {
		return
	}
	LogEvictedRoom(roomID)
	for _, hook := range hooks {
		hook(roomID)
	}
}

func (s *Server) newRoomUnsafe(roomID int) *Room {
	room := NewRoom(roomID, s.connections, s.roomOptions)
	s.rooms[roomID] = room
	LogCreatedRoom(roomID)
	return room
}
