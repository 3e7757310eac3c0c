// Copyright 2025 The GardenWorker Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config for the HTTP & SSH servers.
type Config struct {
	// Host interface to listen on
	Host string
	// Port to listen on for HTTP requests
	HTTPPort int
	// Port to listen on for SSH requests (0 disables SSH)
	SSHPort int
}

// Server runs the HTTP and SSH servers for the service.
type Server struct {
	Config
	log      zerolog.Logger
	endpoint *Endpoint
	ui       UI
	started  time.Time
}

// UI provides the Bubble Tea model served to incoming SSH sessions.
type UI interface {
	Handler(s ssh.Session) (tea.Model, []tea.ProgramOption)
}

// New configures a new Server.
func New(cfg Config, log zerolog.Logger, endpoint *Endpoint, ui UI) (*Server, error) {
	return &Server{
		Config:   cfg,
		log:      log,
		endpoint: endpoint,
		ui:       ui,
		started:  time.Now(),
	}, nil
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	// Prepare HTTP listener
	log := s.log
	httpAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.HTTPPort))
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Fatal().Err(err).Msgf("failed to listen on address %s", httpAddr)
	}

	// Prepare HTTP server
	httpRouter := echo.New()
	httpRouter.HideBanner = true
	httpRouter.POST("/mcp", s.handleRPC)
	httpRouter.GET("/health", s.handleHealth)
	httpRouter.GET("/tools", s.handleTools)
	httpRouter.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	httpRouter.GET("/debug/pprof/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	httpSrv := http.Server{
		Handler: httpRouter,
	}

	// Prepare SSH server
	var sshServer *ssh.Server
	if s.SSHPort > 0 && s.ui != nil {
		sshAddr := net.JoinHostPort(s.Host, strconv.Itoa(s.SSHPort))
		sshServer, err = wish.NewServer(
			// The address the server will listen to.
			wish.WithAddress(sshAddr),

			// The SSH server need its own keys, this will create a keypair in the
			// given path if it doesn't exist yet.
			// By default, it will create an ED25519 key.
			wish.WithHostKeyPath(".ssh/id_ed25519"),

			// Middlewares do something on a ssh.Session, and then call the next
			// middleware in the stack.
			wish.WithMiddleware(
				bubbletea.Middleware(s.ui.Handler),
				// The last item in the chain is the first to be called.
				activeterm.Middleware(),
				logging.Middleware(),
			),
		)
		if err != nil {
			return fmt.Errorf("could not start SSH server: %w", err)
		}
	}

	// Serve apis
	log.Debug().Str("address", httpAddr).Msg("Serving HTTP")
	go func() {
		if err := httpSrv.Serve(httpLis); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to serve HTTP server")
		}
		log.Debug().Str("address", httpAddr).Msg("Done Serving HTTP")
	}()
	if sshServer != nil {
		sshAddr := sshServer.Addr
		log.Debug().Str("address", sshAddr).Msg("Serving SSH")
		go func() {
			if err := sshServer.ListenAndServe(); err != nil && err != ssh.ErrServerClosed {
				log.Fatal().Err(err).Msg("failed to serve SSH server")
			}
			log.Debug().Str("address", sshAddr).Msg("Done Serving SSH")
		}()
	}

	// Wait until context closed
	<-ctx.Done()

	log.Info().Msg("Closing servers")
	httpSrv.Shutdown(context.Background())
	if sshServer != nil {
		sshServer.Shutdown(context.Background())
	}

	return nil
}

func (s *Server) handleRPC(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read request body")
	}
	resp := s.endpoint.Handle(c.Request().Context(), body)
	if resp == nil {
		return c.NoContent(http.StatusAccepted)
	}
	return c.JSONBlob(http.StatusOK, resp)
}

type healthStatus struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Tools   int    `json:"tools"`
	Started string `json:"started"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthStatus{
		Status:  "healthy",
		Name:    s.endpoint.info.Name,
		Version: s.endpoint.info.Version,
		Tools:   len(s.endpoint.ToolDescriptors()),
		Started: humanize.Time(s.started),
	})
}

func (s *Server) handleTools(c echo.Context) error {
	return c.JSON(http.StatusOK, toolsListResult{Tools: s.endpoint.ToolDescriptors()})
}
