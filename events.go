package main

import (
	"strconv"
)

const (
	eventRoomInit    = "room-init"
	eventUserJoin    = "user-join"
	eventGameStart   = "game-start"
	eventVoteStart   = "vote-start"
	eventResult      = "result"
	eventInterrupted = "game-interrupted"
)

func withPayload(event, payload string) []byte {
	return []byte(event + commandDelimiter + payload)
}

func RoomInitEvent(roomID int) []byte {
	return withPayload(eventRoomInit, strconv.Itoa(roomID))
}

func UserJoinEvent(playerCount int) []byte {
	return withPayload(eventUserJoin, strconv.Itoa(playerCount))
}

func UserInitEvent(clientID, name string) []byte {
	return withPayload(clientID, name)
}

func GameStartEvent(masterID string) []byte {
	return withPayload(eventGameStart, masterID)
}

func VoteStartEvent() []byte {
	return []byte(eventVoteStart)
}

func ResultEvent(winner string) []byte {
	return withPayload(eventResult, winner)
}

func InterruptedEvent() []byte {
	return []byte(eventInterrupted)
}
