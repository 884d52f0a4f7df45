package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"

	"github.com/lox/pokertables/internal/game"
	"github.com/lox/pokertables/internal/lobby"
)

// Server exposes a lobby over HTTP and WebSocket.
type Server struct {
	lobby    *lobby.Lobby
	logger   *log.Logger
	upgrader websocket.Upgrader
	hub      *hub
	origins  []string
	defaults game.Settings

	mu         sync.Mutex
	httpServer *http.Server
	closed     bool
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins restricts CORS and WebSocket origins. "*" allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithDefaults sets the settings used for fields a /create request omits.
func WithDefaults(settings game.Settings) Option {
	return func(s *Server) {
		s.defaults = settings
	}
}

// NewServer creates a server for the given lobby.
func NewServer(l *lobby.Lobby, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		lobby:    l,
		logger:   logger.WithPrefix("server"),
		origins:  []string{"*"},
		defaults: game.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	s.hub = newHub(l, s.logger)
	l.OnChange(s.hub.broadcast)
	return s
}

// Handler returns the HTTP handler with CORS and access logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return handlers.CombinedLoggingHandler(s.logger.StandardLog().Writer(), cors(mux))
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpServer
	s.mu.Unlock()

	s.logger.Info("Starting server", "addr", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown closes every WebSocket connection and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	httpServer := s.httpServer
	s.mu.Unlock()

	s.hub.closeAll()
	if httpServer == nil {
		return nil
	}
	return httpServer.Shutdown(ctx)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.origins, "*") {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, allowed := range s.origins {
		if strings.EqualFold(allowed, origin) || strings.EqualFold(allowed, u.Host) {
			return true
		}
	}
	return false
}

// handleWebSocket upgrades a player's connection. The identity key comes
// from the key query parameter.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if s.lobby.FindPlayer(key) == "" {
		s.writeError(w, lobby.ErrUnknownKey)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, key, s.lobby, s.logger)
	s.hub.register(client)
	client.Start()
	client.sendView()

	go func() {
		<-client.ctx.Done()
		s.hub.unregister(client)
	}()
}
