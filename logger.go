package main

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

func SetupLogger(level string, pretty bool) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	if pretty {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}
	return nil
}

type SessionLogger struct {
	zerolog zerolog.Logger
}

func GetSessionLogger(ip string, clientID string, token uuid.UUID) SessionLogger {
	return SessionLogger{log.With().Str("ip", ip).Str("client-id", clientID).Str("session", token.String()).Logger()}
}

func (l SessionLogger) WithRoom(roomID int) SessionLogger {
	return SessionLogger{l.zerolog.With().Int("room-id", roomID).Logger()}
}

func (l SessionLogger) JoinedRoom(players int) {
	l.zerolog.Info().Int("players", players).Msg("Joined room")
}

func (l SessionLogger) RejectedJoin(err error) {
	l.zerolog.Warn().Err(err).Msg("Rejected join")
}

func (l SessionLogger) Superseded(previous uuid.UUID) {
	l.zerolog.Warn().Str("previous-session", previous.String()).Msg("Superseded previous connection")
}

func (l SessionLogger) Disconnected(err error) {
	l.zerolog.Info().Err(err).Msg("Disconnected")
}

func (l SessionLogger) RateLimited() {
	l.zerolog.Warn().Msg("Dropped broadcast frame over rate limit")
}

func (l SessionLogger) RoomClosed() {
	l.zerolog.Info().Msg("Closing connection of terminated room")
}

func (l SessionLogger) MalformedCommand(err error) {
	l.zerolog.Debug().Err(err).Msg("Malformed command, passing through")
}

func (l SessionLogger) WriteFailed(err error) {
	l.zerolog.Warn().Err(err).Msg("Write failed")
}

type RoomLogger struct {
	zerolog zerolog.Logger
}

func GetRoomLogger(roomID int) RoomLogger {
	return RoomLogger{log.With().Int("room-id", roomID).Logger()}
}

func (l RoomLogger) GameStarted(master string, players int) {
	l.zerolog.Info().Str("master", master).Int("players", players).Msg("Game started")
}

func (l RoomLogger) VoteStarted() {
	l.zerolog.Info().Msg("Vote started")
}

func (l RoomLogger) Resolved(winner string, votes int) {
	l.zerolog.Info().Str("winner", winner).Int("votes", votes).Msg("Resolved")
}

func (l RoomLogger) NewRound() {
	l.zerolog.Info().Msg("New round")
}

func (l RoomLogger) Interrupted(departing string) {
	l.zerolog.Info().Str("departing", departing).Msg("Game interrupted")
}

func (l RoomLogger) DeliveryFailed(err error) {
	l.zerolog.Warn().Err(err).Msg("Delivery failed")
}

func (l RoomLogger) IgnoredSignal(signal string, clientID string, phase Phase) {
	l.zerolog.Debug().Str("signal", signal).Str("client-id", clientID).Str("phase", phase.String()).Msg("Ignored signal")
}

func LogCreatedRoom(roomID int) {
	log.Info().Int("room-id", roomID).Msg("Created")
}

func LogEvictedRoom(roomID int) {
	log.Info().Int("room-id", roomID).Msg("Evicted")
}

func LogStartedServer(port string) {
	log.Info().Msgf("Starting server on port %v", port)
}

func LogStoppingServer() {
	log.Info().Msg("Stopping server")
}

func LogServerError(err error) {
	log.Error().Err(err).Msg("Server error")
}

func LogErrorWhileUpgradingHTTP(err error) {
	log.Error().Err(err).Msg("Error while upgrading HTTP")
}
