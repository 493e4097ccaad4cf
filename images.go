package main

import "sync"

// Images holds the pictures players produced during a room's game, keyed by
// room and client id. A room's images go away with the room.
type Images struct {
	byRoom map[int]map[string][]byte
	lock   sync.RWMutex
}

func NewImages() *Images {
	return &Images{byRoom: make(map[int]map[string][]byte)}
}

func (i *Images) Put(roomID int, clientID string, image []byte) {
	i.lock.Lock()
	defer i.lock.Unlock()
	room, ok := i.byRoom[roomID]
	if !ok {
		room = make(map[string][]byte)
		i.byRoom[roomID] = room
	}
	room[clientID] = image
}

func (i *Images) Get(roomID int, clientID string) ([]byte, bool) {
	i.lock.RLock()
	defer i.lock.RUnlock()
	image, ok := i.byRoom[roomID][clientID]
	return image, ok
}

func (i *Images) All(roomID int) map[string][]byte {
	i.lock.RLock()
	defer i.lock.RUnlock()
	images := make(map[string][]byte, len(i.byRoom[roomID]))
	for clientID, image := range i.byRoom[roomID] {
		images[clientID] = image
	}
	return images
}

func (i *Images) DropRoom(roomID int) {
	i.lock.Lock()
	defer i.lock.Unlock()
	delete(i.byRoom, roomID)
}
