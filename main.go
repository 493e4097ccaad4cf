package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"room-coordinator/code"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config := MustLoadConfig()
	if err := SetupLogger(config.LogLevel, config.LogPretty); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connections := NewConnections()
	server := NewServer(connections, code.NewGenerator(config.RoomIDs), config.MinPlayers)
	images := NewImages()
	server.OnEvict(images.DropRoom)

	httpServer := &http.Server{
		Addr:    ":" + config.Port,
		Handler: NewHTTPServer(ctx, server, images, config),
	}
	go func() {
		LogStartedServer(config.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			LogServerError(err)
			stop()
		}
	}()

	<-ctx.Done()
	LogStoppingServer()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		LogServerError(err)
	}
}
