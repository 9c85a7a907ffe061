package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const stopWaitTime = 5 * time.Second

// Config holds HTTP server settings, loaded from the environment.
type Config struct {
	Host     string `env:"HOST"        envDefault:"localhost"`
	Port     string `env:"PORT"        envDefault:"8080"`
	CertFile string `env:"SERVER_CERT" envDefault:""`
	KeyFile  string `env:"SERVER_KEY"  envDefault:""`
}

// Server is a long-running component with a graceful stop.
type Server interface {
	Start() error
	Stop() error
}

type httpServer struct {
	ctx     context.Context
	cancel  context.CancelFunc
	name    string
	address string
	config  Config
	logger  *slog.Logger
	server  *http.Server
}

func NewServer(ctx context.Context, cancel context.CancelFunc, name string, config Config, handler http.Handler, logger *slog.Logger) Server {
	address := net.JoinHostPort(config.Host, config.Port)

	return &httpServer{
		ctx:     ctx,
		cancel:  cancel,
		name:    name,
		address: address,
		config:  config,
		logger:  logger,
		server:  &http.Server{Addr: address, Handler: handler},
	}
}

func (s *httpServer) Start() error {
	errCh := make(chan error)

	switch {
	case s.config.CertFile != "" || s.config.KeyFile != "":
		s.logger.Info(fmt.Sprintf("%s service https server listening at %s with TLS", s.name, s.address))
		go func() {
			errCh <- s.server.ListenAndServeTLS(s.config.CertFile, s.config.KeyFile)
		}()
	default:
		s.logger.Info(fmt.Sprintf("%s service http server listening at %s without TLS", s.name, s.address))
		go func() {
			errCh <- s.server.ListenAndServe()
		}()
	}

	select {
	case <-s.ctx.Done():
		return s.Stop()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	}
}

func (s *httpServer) Stop() error {
	defer s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), stopWaitTime)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error(fmt.Sprintf("%s service error occurred during shutdown at %s: %s", s.name, s.address, err))

		return fmt.Errorf("%s service error occurred during shutdown at %s: %w", s.name, s.address, err)
	}
	s.logger.Info(fmt.Sprintf("%s service shutdown of http at %s", s.name, s.address))

	return nil
}

// StopSignalHandler stops the given servers when SIGINT or SIGABRT
// arrives, then cancels the root context.
func StopSignalHandler(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, svcName string, servers ...Server) error {
	var err error
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGABRT)
	select {
	case sig := <-c:
		defer cancel()
		for _, server := range servers {
			err = server.Stop()
		}
		logger.Info(fmt.Sprintf("%s service shutdown by signal: %s", svcName, sig))

		return err
	case <-ctx.Done():
		return nil
	}
}
