package main

import (
	"net"
	"strings"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

const commandDelimiter = ":"

const (
	keywordInit    = "user-init"
	keywordReady   = "user-ready"
	keywordGameEnd = "game-end"
	keywordVote    = "vote-end"
)

// Command is one of InitCommand, ReadyCommand, GameEndCommand, VoteCommand
// or ChatCommand.
type Command interface {
	command()
}

type InitCommand struct {
	Name string
}

type ReadyCommand struct {
	Mode string
}

type GameEndCommand struct{}

type VoteCommand struct {
	Choice string
}

// ChatCommand carries any frame that is not a known command, verbatim.
type ChatCommand struct {
	Text string
}

func (InitCommand) command()    {}
func (ReadyCommand) command()   {}
func (GameEndCommand) command() {}
func (VoteCommand) command()    {}
func (ChatCommand) command()    {}

// ParseCommand never fails to produce a command. A known keyword missing a
// required payload comes back as a ChatCommand with ErrMalformedCommand.
func ParseCommand(frame string) (Command, error) {
	keyword, payload, hasPayload := strings.Cut(frame, commandDelimiter)
	switch keyword {
	case keywordInit:
		if payload == "" {
			return ChatCommand{Text: frame}, newMalformedCommandError(keyword)
		}
		return InitCommand{Name: payload}, nil
	case keywordReady:
		return ReadyCommand{Mode: payload}, nil
	case keywordGameEnd:
		return GameEndCommand{}, nil
	case keywordVote:
		if !hasPayload || payload == "" {
			return ChatCommand{Text: frame}, newMalformedCommandError(keyword)
		}
		return VoteCommand{Choice: payload}, nil
	default:
		return ChatCommand{Text: frame}, nil
	}
}

type PlayerWebsocket struct {
	conn net.Conn
}

func NewPlayerWebsocket(conn net.Conn) *PlayerWebsocket {
	return &PlayerWebsocket{conn}
}

func (p PlayerWebsocket) ReadFrame() ([]byte, error) {
	return wsutil.ReadClientText(p.conn)
}

func (p PlayerWebsocket) Send(message []byte) error {
	return wsutil.WriteServerText(p.conn, message)
}

// SendClose writes a close frame. The connection itself stays open.
func (p PlayerWebsocket) SendClose(code ws.StatusCode, reason string) error {
	return ws.WriteFrame(p.conn, ws.NewCloseFrame(ws.NewCloseFrameBody(code, reason)))
}

func (p PlayerWebsocket) Close() error {
	return p.conn.Close()
}
