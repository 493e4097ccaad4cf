package main

import (
	"errors"
	"fmt"
)

var (
	ErrChannelUnavailable = errors.New("channel unavailable")
	ErrUnknownRoom        = errors.New("unknown room")
	ErrCapacityExceeded   = errors.New("room id space exhausted")
	ErrMalformedCommand   = errors.New("malformed command")
	ErrRoomClosed         = errors.New("room closed")
)

func newChannelUnavailableError(clientID, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrChannelUnavailable, clientID, reason)
}

func newUnknownRoomError(roomID int) error {
	return fmt.Errorf("%w: %d", ErrUnknownRoom, roomID)
}

func newCapacityExceededError(low, high int) error {
	return fmt.Errorf("%w: all ids in [%d, %d] are taken", ErrCapacityExceeded, low, high)
}

func newMalformedCommandError(keyword string) error {
	return fmt.Errorf("%w: %q", ErrMalformedCommand, keyword)
}

func newRoomClosedError(roomID int) error {
	return fmt.Errorf("%w: %d", ErrRoomClosed, roomID)
}
