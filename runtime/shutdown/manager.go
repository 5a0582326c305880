// Package shutdown runs the service's servers and stops them together.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vortex-fintech/go-phonemask/foundation/logger"
)

// Server is anything Manager can start and stop.
type Server interface {
	Serve(ctx context.Context) error
	GracefulStopWithTimeout(ctx context.Context) error
	ForceStop()
	Name() string
}

type Config struct {
	// ShutdownTimeout bounds the graceful stop. Zero forces servers to stop
	// immediately.
	ShutdownTimeout time.Duration

	// HandleSignals cancels Run on SIGINT and SIGTERM.
	HandleSignals bool

	// IsNormalError reports whether a Serve error is expected during
	// shutdown. Default: DefaultIsNormalErr.
	IsNormalError func(error) bool

	Logger logger.LoggerInterface
}

type Manager struct {
	cfg     Config
	mu      sync.Mutex
	servers []Server
	stopped bool
}

func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.IsNormalError == nil {
		cfg.IsNormalError = DefaultIsNormalErr
	}
	return &Manager{cfg: cfg}
}

// Add registers a server. Nil servers are ignored.
func (m *Manager) Add(s Server) {
	if s == nil {
		return
	}
	m.mu.Lock()
	m.servers = append(m.servers, s)
	m.mu.Unlock()
}

// Run starts every server and blocks until ctx is done or a server exits.
// It then stops all servers and returns the first non-normal serve error.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.HandleSignals {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}

	log := m.cfg.Logger
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range m.snapshot() {
		g.Go(func() error {
			name := safeName(srv)
			log.Infow("serve start", "name", name)
			err := srv.Serve(gctx)
			if err != nil && !m.cfg.IsNormalError(err) && gctx.Err() == nil {
				log.Errorw("serve error", "name", name, "err", err)
				return err
			}
			log.Infow("serve stop", "name", name, "err", errString(err))
			return nil
		})
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- g.Wait() }()

	var groupDone bool
	var groupErr error

	select {
	case <-ctx.Done():
		log.Infow("context done; starting graceful stop")
	case err := <-waitCh:
		groupDone, groupErr = true, err
		if err != nil && !m.cfg.IsNormalError(err) {
			log.Warnw("group finished with error; starting graceful stop", "err", err)
		} else {
			log.Infow("group finished; starting graceful stop")
		}
	}

	m.Stop()

	if groupDone {
		if groupErr != nil && !m.cfg.IsNormalError(groupErr) {
			return groupErr
		}
		return nil
	}

	select {
	case err := <-waitCh:
		if err != nil && !m.cfg.IsNormalError(err) {
			return err
		}
		return nil
	case <-time.After(m.cfg.ShutdownTimeout + 2*time.Second):
		return fmt.Errorf("shutdown: wait group timeout after %s", m.cfg.ShutdownTimeout)
	}
}

// Stop gives every server ShutdownTimeout to stop gracefully and forces the
// ones that do not. Calls after the first are no-ops.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	servers := append([]Server(nil), m.servers...)
	m.mu.Unlock()

	log := m.cfg.Logger
	started := time.Now()

	stopCtx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()

	var g errgroup.Group
	for _, srv := range servers {
		g.Go(func() error {
			name := safeName(srv)

			graceDone := make(chan error, 1)
			go func() { graceDone <- srv.GracefulStopWithTimeout(stopCtx) }()

			select {
			case err := <-graceDone:
				if err != nil {
					log.Warnw("graceful stop error; forcing", "name", name, "err", err)
					srv.ForceStop()
					return nil
				}
				log.Infow("graceful stop done", "name", name)
			case <-stopCtx.Done():
				log.Warnw("graceful stop timeout; forcing", "name", name, "err", stopCtx.Err())
				srv.ForceStop()
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Infow("shutdown complete", "servers", len(servers), "elapsed", time.Since(started))
}

// DefaultIsNormalErr recognizes http.ErrServerClosed, context cancellation
// and closed-listener errors.
func DefaultIsNormalErr(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}

func (m *Manager) snapshot() []Server {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Server(nil), m.servers...)
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

func safeName(s Server) string {
	if n := s.Name(); n != "" {
		return n
	}
	return "server"
}
