package depconfig

import (
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// Server answers configuration requests on the deployment listen endpoint.
type Server struct {
	app  *fiber.App
	addr string

	mu       sync.RWMutex
	snapshot Snapshot

	running       atomic.Bool
	shutdownMutex sync.Mutex
}

type HealthReply struct {
	IsServerRunning bool `json:"isServerRunning"`
}

// NewServer creates a deployment configuration server that will listen on
// addr and serve the given snapshot.
func NewServer(addr string, snapshot Snapshot) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
			DisableStartupMessage: true,
		}),
		addr:     addr,
		snapshot: snapshot,
	}
	s.registerHandlers()
	return s
}

func (s *Server) registerHandlers() {
	s.app.Get(ConfigPath, func(c *fiber.Ctx) error {
		s.mu.RLock()
		snap := s.snapshot
		s.mu.RUnlock()
		return c.JSON(snap)
	})

	s.app.Get(HealthPath, func(c *fiber.Ctx) error {
		return c.JSON(HealthReply{IsServerRunning: s.running.Load()})
	})
}

// SetSnapshot replaces the snapshot served to subsequent requests.
func (s *Server) SetSnapshot(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

// App exposes the underlying fiber app so tests can drive requests without a
// network listener.
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve blocks listening for configuration requests until Shutdown is called.
func (s *Server) Serve() error {
	s.running.Store(true)
	err := s.app.Listen(s.addr)
	s.running.Store(false)
	return err
}

// Start runs Serve on its own goroutine, logging a listen failure instead of
// returning it.
func (s *Server) Start() {
	go func() {
		if err := s.Serve(); err != nil {
			log.Error().Err(err).Msgf("deployment config server failed: %s", eris.ToString(err, true))
		}
	}()
}

func (s *Server) Shutdown() error {
	s.shutdownMutex.Lock()
	defer s.shutdownMutex.Unlock()
	if !s.running.Load() {
		return nil
	}
	return s.app.Shutdown()
}
