package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gobwas/ws"
)

type HTTPHandler struct {
	Server *Server
	Images *Images
	Config *Config
	// ctx closes every live session when the process shuts down.
	ctx context.Context
}

func NewHTTPServer(ctx context.Context, server *Server, images *Images, config *Config) http.Handler {
	httpHandler := HTTPHandler{Server: server, Images: images, Config: config, ctx: ctx}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "PUT"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RealIP)
	r.Use(httprate.Limit(config.HTTPRateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint)))
	r.Use(middleware.Heartbeat("/"))

	r.Get("/ws", httpHandler.websocket())
	r.Get("/room/{roomId}", httpHandler.getRoom())
	r.Get("/room/{roomId}/images", httpHandler.getImages())
	r.Get("/room/{roomId}/image/{clientId}", httpHandler.getImage())
	r.Put("/room/{roomId}/image/{clientId}", httpHandler.putImage())
	return r
}

func (h HTTPHandler) sessionConfig() SessionConfig {
	return SessionConfig{
		OutboxSize:        h.Config.OutboxSize,
		MessagesPerSecond: h.Config.MessagesPerSecond,
		MessageBurst:      h.Config.MessageBurst,
	}
}

func (h HTTPHandler) websocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		clientID := query.Get("client_id")
		if clientID == "" {
			http.Error(w, "client_id is required", http.StatusBadRequest)
			return
		}
		request := JoinRequest{ClientID: clientID, CreateNamed: h.Config.AllowNamedRooms}
		if raw := query.Get("room_id"); raw != "" {
			roomID, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "room_id must be a number", http.StatusBadRequest)
				return
			}
			request.RoomID = &roomID
			if _, exists := h.Server.GetRoom(roomID); !exists && !request.CreateNamed {
				http.Error(w, newUnknownRoomError(roomID).Error(), http.StatusNotFound)
				return
			}
		} else if h.Server.Full() {
			http.Error(w, ErrCapacityExceeded.Error(), http.StatusServiceUnavailable)
			return
		}

		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		defer conn.Close()
		session := NewSession(NewPlayerWebsocket(conn), h.Server, request, h.sessionConfig(), r.RemoteAddr)
		session.Run(h.ctx)
	}
}

func (h HTTPHandler) room(w http.ResponseWriter, r *http.Request) (*Room, bool) {
	roomID, err := strconv.Atoi(chi.URLParam(r, "roomId"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	room, exists := h.Server.GetRoom(roomID)
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	return room, true
}

func writeJSON(w http.ResponseWriter, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(encoded)
}

func (h HTTPHandler) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.room(w, r)
		if !ok {
			return
		}
		writeJSON(w, room.Snapshot())
	}
}

func (h HTTPHandler) getImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.room(w, r)
		if !ok {
			return
		}
		writeJSON(w, h.Images.All(room.ID()))
	}
}

func (h HTTPHandler) getImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.room(w, r)
		if !ok {
			return
		}
		image, exists := h.Images.Get(room.ID(), chi.URLParam(r, "clientId"))
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", http.DetectContentType(image))
		w.Write(image)
	}
}

func (h HTTPHandler) putImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room, ok := h.room(w, r)
		if !ok {
			return
		}
		clientID := chi.URLParam(r, "clientId")
		if !room.HasPlayer(clientID) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.Config.MaxImageBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.Images.Put(room.ID(), clientID, image)
		if current, exists := h.Server.GetRoom(room.ID()); !exists || current != room {
			// evicted while the body was read
			h.Images.DropRoom(room.ID())
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
