// Package web serves the dashboard: JSON API, websocket feeds and the
// embedded single-page UI.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/air-magic/pkg/camera"
	"github.com/teslashibe/air-magic/pkg/hub"
	"github.com/teslashibe/air-magic/pkg/session"
	"github.com/teslashibe/air-magic/pkg/views"
)

//go:embed static
var staticFiles embed.FS

// cameraStartTimeout bounds camera acquisition requested over the API.
const cameraStartTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// NewSession builds a fresh session. It is called once at startup and
	// again whenever the simulation view is left. Required.
	NewSession func() (*session.Session, error)

	// Router tracks the visible view. Optional.
	Router *views.Router

	// Cameras exposes the capture configuration API when set.
	Cameras *camera.Manager

	Logger  *slog.Logger
	Version string
}

// Server is the dashboard server.
type Server struct {
	app     *fiber.App
	addr    string
	logger  *slog.Logger
	version string
	started time.Time

	newSession func() (*session.Session, error)
	router     *views.Router
	cameras    *camera.Manager

	mu   sync.RWMutex
	sess *session.Session

	// Hubs for websocket broadcast
	sessionHub *hub.Hub
	cameraHub  *hub.Hub
}

// New creates the server and its first session.
func New(opts Options) (*Server, error) {
	if opts.NewSession == nil {
		return nil, errors.New("web: NewSession is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Router == nil {
		opts.Router = views.NewRouter(opts.Logger)
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	s := &Server{
		addr:       opts.Addr,
		logger:     opts.Logger.With("component", "web"),
		version:    opts.Version,
		started:    time.Now(),
		newSession: opts.NewSession,
		router:     opts.Router,
		cameras:    opts.Cameras,
		sessionHub: hub.New("session", opts.Logger),
		cameraHub:  hub.New("camera", opts.Logger),
	}

	sess, err := opts.NewSession()
	if err != nil {
		return nil, fmt.Errorf("web: create session: %w", err)
	}
	s.attach(sess)
	s.sess = sess

	s.router.OnLeave(views.Simulation, s.leaveSimulation)

	app := fiber.New(fiber.Config{
		AppName:               "Air Magic Interaction",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Get("/views", s.handleListViews)
	api.Get("/views/:name", s.handleGetView)
	api.Get("/layout", s.handleLayout)
	api.Get("/view", s.handleCurrentView)
	api.Put("/view/:name", s.handleSelectView)

	api.Get("/session", s.handleSession)
	api.Post("/session/camera", s.handleStartCamera)
	api.Delete("/session/camera", s.handleStopCamera)
	api.Post("/session/capture", s.handleCapture)

	api.Get("/receiver", s.handleReceiver)
	api.Get("/records/:id/image", s.handleRecordImage)
	api.Get("/logs", s.handleLogs)
	api.Get("/stats", s.handleStats)

	if s.cameras != nil {
		api.Get("/camera/config", s.handleGetCameraConfig)
		api.Put("/camera/config", s.handleUpdateCameraConfig)
		api.Get("/camera/presets", s.handleCameraPresets)
	}

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/session", websocket.New(s.handleSessionWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	root, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("web: static files: %w", err)
	}
	app.Use("/", filesystem.New(filesystem.Config{
		Root:  http.FS(root),
		Index: "index.html",
	}))

	s.app = app
	return s, nil
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Session returns the current session.
func (s *Server) Session() *session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess
}

// attach forwards a session's changes to the hubs while it is current.
func (s *Server) attach(sess *session.Session) {
	sess.OnChange(func(session.State) {
		if s.Session() != sess {
			return
		}
		if err := s.sessionHub.BroadcastJSON(s.snapshot(sess)); err != nil {
			s.logger.Warn("snapshot encode failed", "error", err)
		}
	})
	sess.OnPreview(func(frame []byte) {
		if s.Session() != sess || s.cameraHub.ClientCount() == 0 {
			return
		}
		s.cameraHub.BroadcastBinary(frame)
	})
}

// ResetSession tears the current session down and replaces it with a fresh
// one. Pending transfers and records of the old session are discarded.
func (s *Server) ResetSession() error {
	next, err := s.newSession()
	if err != nil {
		return fmt.Errorf("web: create session: %w", err)
	}
	s.attach(next)

	s.mu.Lock()
	prev := s.sess
	s.sess = next
	s.mu.Unlock()

	if err := prev.Close(); err != nil {
		s.logger.Warn("session close failed", "error", err)
	}
	if err := s.sessionHub.BroadcastJSON(s.snapshot(next)); err != nil {
		s.logger.Warn("snapshot encode failed", "error", err)
	}
	return nil
}

func (s *Server) leaveSimulation() {
	if err := s.ResetSession(); err != nil {
		s.logger.Error("session reset failed", "error", err)
	}
}

// Run serves on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("web: listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the hubs and serves on ln until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.sessionHub.Run(ctx)
	go s.cameraHub.Run(ctx)

	s.logger.Info("dashboard listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listener(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the server and closes the current session.
func (s *Server) Shutdown() error {
	err := s.app.ShutdownWithTimeout(5 * time.Second)
	if cerr := s.Session().Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

// errorHandler renders errors as JSON bodies.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
