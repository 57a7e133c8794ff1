// Package server provides the development static file server: a listener with
// address reuse, a responder enforcing the header policy and a blocking serve
// loop that shuts down gracefully when its context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/clean-dependency-project/devserve/internal/headers"
	"github.com/clean-dependency-project/devserve/internal/logger"
)

// Defaults used when the corresponding Config field is zero.
const (
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
)

// Config holds everything the server needs. Root must already be resolved to
// an existing directory.
type Config struct {
	Host            string            // Listen host, empty means all interfaces
	Port            int               // Listen port, 0 picks a free one
	Root            string            // Document root
	ContentTypes    map[string]string // Extra forced content types
	AccessLog       bool              // Log every request
	ShutdownTimeout time.Duration     // Grace period for in-flight requests
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for lifecycle and access logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// Server serves a document root over HTTP.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	responder  *Responder
	handler    http.Handler
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New validates cfg and builds a Server. It does not bind any socket.
func New(cfg Config, opts ...Option) (*Server, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootNotDirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, cfg.Root)
	}

	policy, err := headers.NewPolicy(cfg.ContentTypes)
	if err != nil {
		return nil, err
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		cfg:    cfg,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.responder = NewResponder(cfg.Root, policy)
	s.handler = s.responder
	if cfg.AccessLog {
		s.handler = AccessLog(s.logger, s.responder)
	}
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	return s, nil
}

// Handler returns the HTTP handler, usable without a listener.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Root returns the document root being served.
func (s *Server) Root() string {
	return s.responder.Root()
}

// Listen binds the configured address. A bind failure because the address is
// taken is reported as a *StartupError wrapping ErrPortInUse.
func (s *Server) Listen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return errors.New("server is already listening")
	}

	addr := s.cfg.Addr()
	lc := net.ListenConfig{Control: reuseAddr}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return classifyListenError(addr, err)
	}
	s.listener = ln
	s.logger.Debug("listening", "addr", ln.Addr().String(), "root", s.cfg.Root)
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL returns the root URL clients should open. Wildcard and empty hosts
// become localhost.
func (s *Server) URL() string {
	port := s.cfg.Port
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	host := s.cfg.Host
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// Serve accepts connections until ctx is done, then stops accepting and waits
// up to the shutdown timeout for in-flight requests. A context cancellation
// is a clean stop and returns nil.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server is not listening")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Debug("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	// Serve never tracks ln if Shutdown won the race, so close it here too.
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("close listener: %w", err)
	}
	return nil
}

// Close releases the listener without waiting for requests.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}
	if err := s.httpServer.Close(); err != nil {
		return err
	}
	// http.Server.Close already closed ln if Serve was running.
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
