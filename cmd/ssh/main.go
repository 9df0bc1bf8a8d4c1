package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/snake/internal/config"
	"github.com/tomz197/snake/internal/draw"
	"github.com/tomz197/snake/internal/loop"
	"github.com/tomz197/snake/internal/loop/client"
	loopcfg "github.com/tomz197/snake/internal/loop/config"
	"github.com/tomz197/snake/internal/loop/server"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger := config.NewLogger(os.Stderr, "ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath)

	settings := config.FromEnv()
	if err := settings.Validate(); err != nil {
		logger.Fatal("invalid settings", "err", err)
	}

	// Shared by all SSH sessions: who is connected and the top scores
	hub := server.NewHub(logger)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(hub, settings, logger),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Show the shutdown notice, then end every session and wait for them to disconnect
	notice := time.Duration(loopcfg.ShutdownDisplaySeconds * float64(time.Second))
	if remaining := hub.Shutdown(notice, 15*time.Second); remaining > 0 {
		logger.Warn("closing server with sessions still open", "remaining", remaining)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs one local game session per SSH session.
// The "duo" command starts a two-player session on the same keyboard.
func gameMiddleware(hub *server.Hub, settings config.Settings, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			players := 1
			if cmd := sess.Command(); len(cmd) > 0 && cmd[0] == "duo" {
				players = 2
			}

			logger.Info("new game session",
				"user", sess.User(), "terminal", pty.Term, "players", players,
				"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			handle := hub.Register(sess.Context(), sess.User())
			defer handle.Close()

			if err := play(hub, handle, sess, sizeTracker, settings, players, logger); err != nil {
				logger.Error("game error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

func play(hub *server.Hub, handle *server.Handle, sess ssh.Session, size *sizeTracker, settings config.Settings, players int, logger *log.Logger) error {
	session, err := loop.New(loop.Options{
		Settings:   settings,
		Players:    players,
		Seed:       uint64(time.Now().UnixNano()) + uint64(handle.ID),
		Logger:     logger.With("user", sess.User(), "session", handle.ID),
		OnGameOver: handle.Record,
	})
	if err != nil {
		return err
	}

	c := client.NewClient(sess, sess, client.Options{
		TermSizeFunc: size.getSize,
		Settings:     settings,
		Players:      players,
		Hub:          hub,
		IdleWarn:     loopcfg.InactivityWarn * time.Second,
		IdleTimeout:  loopcfg.InactivityDisconnect * time.Second,
	})
	c.Start()
	defer c.Close()

	err = loop.Run(handle.Context(), session, c, c)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
