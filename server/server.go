package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/metro-pacman/game"
	"github.com/theoremus-urban-solutions/metro-pacman/geocode"
	"github.com/theoremus-urban-solutions/metro-pacman/render"
	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

// Geocoder resolves free-text target addresses. *geocode.Client implements it.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (geocode.Result, error)
}

// Server owns one game at a time over a fixed graph
type Server struct {
	graph    *transit.Graph
	opts     game.Options
	geocoder Geocoder
	origins  []string

	mu      sync.Mutex
	engine  *game.Engine
	gameID  string
	version uint64 // bumped on every published change

	hub  *hub
	http *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithGeocoder enables address targets
func WithGeocoder(g Geocoder) Option {
	return func(s *Server) { s.geocoder = g }
}

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// New starts a game on g and the socket hub. Close releases the hub.
func New(g *transit.Graph, opts game.Options, options ...Option) (*Server, error) {
	s := &Server{
		graph:   g,
		opts:    opts,
		origins: []string{"*"},
		hub:     newHub(),
	}
	for _, o := range options {
		o(s)
	}
	if _, err := s.reset(); err != nil {
		return nil, err
	}
	go s.hub.run()
	return s, nil
}

// Router returns the HTTP routes
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/scene", s.handleScene)
	r.Get("/api/snapshot", s.handleSnapshot)
	r.Get("/api/nearest", s.handleNearest)
	r.Get("/api/map.png", s.handleMapPNG)
	r.Post("/api/tick", s.handleTick)
	r.Post("/api/mode", s.handleMode)
	r.Post("/api/target", s.handleSetTarget)
	r.Delete("/api/target", s.handleClearTarget)
	r.Post("/api/reset", s.handleReset)
	r.Get("/ws", s.handleWS)
	return r
}

// Start listens on port in the background
func (s *Server) Start(port int) {
	addr := fmt.Sprintf(":%d", port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// Shutdown stops the listener and closes every socket
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.Close()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Close stops the socket hub
func (s *Server) Close() {
	s.hub.stop()
}

// reset replaces the game and publishes its first scene in one locked step
func (s *Server) reset() (sceneMessage, error) {
	e, err := game.New(s.graph, s.opts)
	if err != nil {
		return sceneMessage{}, fmt.Errorf("start game: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = e
	s.gameID = uuid.NewString()
	s.version++
	msg, err := s.sceneMessageLocked()
	if err != nil {
		return msg, err
	}
	s.hub.publish(msg.Version, msg)
	log.Printf("game %s started", s.gameID)
	return msg, nil
}

// sceneMessage is the socket payload pushed after every change
type sceneMessage struct {
	Type     string        `json:"type"`
	GameID   string        `json:"gameId"`
	Version  uint64        `json:"version"`
	Snapshot game.Snapshot `json:"snapshot"`
	Scene    render.Scene  `json:"scene"`
}

func (s *Server) sceneMessage() (sceneMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sceneMessageLocked()
}

func (s *Server) sceneMessageLocked() (sceneMessage, error) {
	snap := s.engine.Snapshot()
	scene, err := render.BuildScene(s.graph, snap)
	if err != nil {
		return sceneMessage{}, fmt.Errorf("build scene: %w", err)
	}
	return sceneMessage{
		Type:     "scene",
		GameID:   s.gameID,
		Version:  s.version,
		Snapshot: snap,
		Scene:    scene,
	}, nil
}

// mutate runs fn under the game lock and pushes the resulting scene before
// releasing it, so sockets receive scenes in the order the changes happened.
func (s *Server) mutate(fn func(e *game.Engine) error) (sceneMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.engine)
	if err == nil {
		s.version++
	}
	msg, buildErr := s.sceneMessageLocked()
	if buildErr != nil {
		return msg, buildErr
	}
	if err == nil {
		s.hub.publish(msg.Version, msg)
	}
	return msg, err
}

func (s *Server) tick(input string) (sceneMessage, error) {
	cmd, err := game.ParseCommand(input)
	if err != nil {
		msg, _ := s.sceneMessage()
		return msg, err
	}
	return s.mutate(func(e *game.Engine) error {
		snap, err := e.Tick(cmd)
		if err == nil && snap.Outcome != game.OutcomeNone {
			log.Printf("turn %d: %s (lives %d, score %d)", snap.Turn, snap.Outcome, snap.Lives, snap.Score)
		}
		return err
	})
}
