package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"room-coordinator/code"
)

type Config struct {
	Port              string
	AllowedOrigins    []string
	HTTPRateLimit     int
	MessagesPerSecond float64
	MessageBurst      int
	OutboxSize        int
	RoomIDs           code.Range
	MinPlayers        int
	AllowNamedRooms   bool
	MaxImageBytes     int64
	LogLevel          string
	LogPretty         bool
}

func MustLoadConfig() *Config {
	godotenv.Load()
	config, err := LoadConfig(os.Getenv)
	if err != nil {
		panic(err)
	}
	return config
}

// LoadConfig reads every setting through getenv, falling back to defaults
// for unset keys.
func LoadConfig(getenv func(string) string) (*Config, error) {
	env := envReader{getenv: getenv}
	config := &Config{
		Port:              env.readString("PORT", "3000"),
		AllowedOrigins:    env.readList("ALLOWED_ORIGINS", []string{"*"}),
		HTTPRateLimit:     env.readInt("HTTP_RATE_LIMIT", 30),
		MessagesPerSecond: env.readFloat("MESSAGES_PER_SECOND", 10),
		MessageBurst:      env.readInt("MESSAGE_BURST", 20),
		OutboxSize:        env.readInt("OUTBOX_SIZE", 64),
		RoomIDs: code.Range{
			Min: env.readInt("ROOM_ID_MIN", code.DefaultMin),
			Max: env.readInt("ROOM_ID_MAX", code.DefaultMax),
		},
		MinPlayers:      env.readInt("MIN_PLAYERS", 1),
		AllowNamedRooms: env.readBool("ALLOW_NAMED_ROOMS", false),
		MaxImageBytes:   int64(env.readInt("MAX_IMAGE_BYTES", 5<<20)),
		LogLevel:        env.readString("LOG_LEVEL", "info"),
		LogPretty:       env.readBool("LOG_PRETTY", false),
	}
	if env.err != nil {
		return nil, env.err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch {
	case !c.RoomIDs.Valid():
		return fmt.Errorf("invalid room id range [%d, %d]", c.RoomIDs.Min, c.RoomIDs.Max)
	case c.HTTPRateLimit < 1:
		return fmt.Errorf("HTTP_RATE_LIMIT must be greater than 0")
	case c.MessagesPerSecond <= 0 || c.MessageBurst < 1:
		return fmt.Errorf("MESSAGES_PER_SECOND and MESSAGE_BURST must be greater than 0")
	case c.OutboxSize < 1:
		return fmt.Errorf("OUTBOX_SIZE must be greater than 0")
	case c.MinPlayers < 1:
		return fmt.Errorf("MIN_PLAYERS must be greater than 0")
	case c.MaxImageBytes < 1:
		return fmt.Errorf("MAX_IMAGE_BYTES must be greater than 0")
	}
	return nil
}

// envReader keeps the first parse error so LoadConfig can report it once.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) readString(key, fallback string) string {
	if value := e.getenv(key); value != "" {
		return value
	}
	return fallback
}

func (e *envReader) readList(key string, fallback []string) []string {
	value := e.getenv(key)
	if value == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (e *envReader) readInt(key string, fallback int) int {
	value := e.getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return parsed
}

func (e *envReader) readFloat(key string, fallback float64) float64 {
	value := e.getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return parsed
}

func (e *envReader) readBool(key string, fallback bool) bool {
	value := e.getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.fail(key, err)
		return fallback
	}
	return parsed
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%s: %w", key, err)
	}
}
