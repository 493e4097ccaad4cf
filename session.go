package main

import (
	"context"
	"errors"

	"github.com/gobwas/ws"
	"golang.org/x/time/rate"
)

type SessionConfig struct {
	OutboxSize        int
	MessagesPerSecond float64
	MessageBurst      int
}

// JoinRequest describes which room a connecting client asked for. A nil
// RoomID asks for a fresh room. CreateNamed lets an unknown RoomID create
// the room instead of rejecting the join.
type JoinRequest struct {
	ClientID    string
	RoomID      *int
	CreateNamed bool
}

// Session drives one player's websocket for its whole lifetime.
type Session struct {
	request JoinRequest
	player  *PlayerWebsocket
	server  *Server
	conn    *Connection
	limiter *rate.Limiter
	logger  SessionLogger
}

func NewSession(player *PlayerWebsocket, server *Server, request JoinRequest, config SessionConfig, ip string) *Session {
	conn := NewConnection(request.ClientID, config.OutboxSize)
	return &Session{
		request: request,
		player:  player,
		server:  server,
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(config.MessagesPerSecond), config.MessageBurst),
		logger:  GetSessionLogger(ip, request.ClientID, conn.Token),
	}
}

// Run returns once the connection is gone. A rejected join is returned as
// an error. A lost connection terminates the room and returns nil, and a
// terminated room closes every member's connection.
func (s *Session) Run(ctx context.Context) error {
	room, roomID, generated, err := s.resolveRoom()
	if err != nil {
		s.reject(err)
		return err
	}
	s.logger = s.logger.WithRoom(roomID)

	connections := s.server.connections
	if previous := connections.Register(s.conn); previous != nil {
		s.logger.Superseded(previous.Token)
	}
	writerDone := make(chan struct{})
	go s.writeLoop(room, writerDone)
	release := func() {
		connections.Release(s.conn)
		s.conn.Close()
		<-writerDone
	}
	defer release()

	stop := context.AfterFunc(ctx, func() { s.player.Close() })
	defer stop()

	if generated {
		if err := s.conn.push(RoomInitEvent(roomID)); err != nil {
			s.logger.WriteFailed(err)
		}
	}
	players, err := room.Join(s.request.ClientID)
	if err != nil {
		// the writer must be gone before the close frame goes out
		release()
		s.reject(err)
		return err
	}
	s.logger.JoinedRoom(players)

	for {
		frame, err := s.player.ReadFrame()
		if err != nil {
			s.logger.Disconnected(err)
			room.Terminate(s.request.ClientID)
			return nil
		}
		command, err := ParseCommand(string(frame))
		if err != nil {
			s.logger.MalformedCommand(err)
		}
		// only rebroadcast frames are limited, phase signals always go through
		switch command.(type) {
		case ChatCommand, InitCommand:
			if !s.limiter.Allow() {
				s.logger.RateLimited()
				continue
			}
		}
		s.dispatch(room, command)
	}
}

func (s *Session) resolveRoom() (*Room, int, bool, error) {
	if s.request.RoomID == nil {
		room, roomID, err := s.server.CreateRoom()
		return room, roomID, true, err
	}
	if s.request.CreateNamed {
		room, roomID, err := s.server.CreateOrJoin(s.request.RoomID)
		return room, roomID, false, err
	}
	room, err := s.server.Join(*s.request.RoomID)
	return room, *s.request.RoomID, false, err
}

func (s *Session) dispatch(room *Room, command Command) {
	clientID := s.request.ClientID
	switch c := command.(type) {
	case InitCommand:
		room.Init(clientID, c.Name)
	case ReadyCommand:
		room.Ready(clientID)
	case GameEndCommand:
		room.GameEnd(clientID)
	case VoteCommand:
		room.Vote(clientID, c.Choice)
	case ChatCommand:
		room.Chat(clientID, c.Text)
	}
}

func (s *Session) writeLoop(room *Room, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case message := <-s.conn.Outbox():
			if !s.write(message) {
				return
			}
		case <-s.conn.Done():
			return
		case <-room.Done():
			s.hangUp()
			return
		}
	}
}

func (s *Session) write(message []byte) bool {
	if err := s.player.Send(message); err != nil {
		s.logger.WriteFailed(err)
		s.conn.Close()
		s.player.Close()
		return false
	}
	return true
}

// hangUp flushes what is queued, game-interrupted included, then closes
// the socket so the read loop ends.
func (s *Session) hangUp() {
	for flushing := true; flushing; {
		select {
		case message := <-s.conn.Outbox():
			if !s.write(message) {
				return
			}
		default:
			flushing = false
		}
	}
	s.logger.RoomClosed()
	if err := s.player.SendClose(ws.StatusNormalClosure, "room terminated"); err != nil {
		s.logger.WriteFailed(err)
	}
	s.conn.Close()
	s.player.Close()
}

func (s *Session) reject(err error) {
	s.logger.RejectedJoin(err)
	code := ws.StatusPolicyViolation
	if errors.Is(err, ErrCapacityExceeded) {
		code = ws.StatusInternalServerError
	}
	if werr := s.player.SendClose(code, err.Error()); werr != nil {
		s.logger.WriteFailed(werr)
	}
}
