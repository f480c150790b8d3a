package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-admin-console/authfake"
	"github.com/jrsteele09/go-admin-console/authservice"
	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/jrsteele09/go-admin-console/internal/logger"
	"github.com/jrsteele09/go-admin-console/server"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logger.Init(c.GetLogLevel(), c.GetLogFormat())
	displayAppname(c.GetAppName())

	ctx := context.Background()
	servers := []*http.Server{}

	authURL := c.GetAuthServiceURL()
	if authURL == "" {
		fake, err := startFakeAuthService(c)
		if err != nil {
			return err
		}
		servers = append(servers, fake)
		authURL = "http://localhost" + fake.Addr
	}

	opts := authservice.OptionsFromConfig(c, authURL)
	if c.GetAuthServiceURL() == "" && opts.Issuer == "" {
		opts.Issuer = authURL
	}
	authClient, err := authservice.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("[run] auth service client: %w", err)
	}

	handler, err := server.New(c, authClient)
	if err != nil {
		return fmt.Errorf("[run] %w", err)
	}
	console := &http.Server{Addr: c.GetPort(), Handler: handler}
	servers = append(servers, console)
	log.Info().Str("url", c.GetBaseURL()).Str("auth_service", authURL).Msg("Admin console starting")

	errs := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *http.Server) { errs <- listenAndServe(s) }(s)
	}

	select {
	case <-waitForStopSignal():
	case err := <-errs:
		if err != nil {
			returnError = err
		}
	}
	for _, s := range servers {
		if err := shutdown(s); err != nil && returnError == nil {
			returnError = err
		}
	}
	return returnError
}

// startFakeAuthService runs the in-memory auth service for local development
func startFakeAuthService(c config.Config) (*http.Server, error) {
	if c.GetEnv() != "DEV" {
		return nil, errors.New("[startFakeAuthService] AUTH_SERVICE_URL is required outside DEV")
	}
	addr := c.GetFakeAuthPort()
	issuer := c.GetTokenIssuer()
	if issuer == "" {
		issuer = "http://localhost" + addr
	}
	fake, err := authfake.New(issuer)
	if err != nil {
		return nil, err
	}

	password := c.GetBootstrapAdminPassword()
	generated := password == ""
	if generated {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	}
	if _, err := fake.AddUser(c.GetBootstrapAdminEmail(), password, users.RoleAdmin); err != nil {
		return nil, fmt.Errorf("[startFakeAuthService] seed admin: %w", err)
	}
	event := log.Warn().Str("addr", addr).Str("email", c.GetBootstrapAdminEmail())
	if generated {
		event = event.Str("password", password)
	}
	event.Msg("Using the in-memory auth service")

	return &http.Server{Addr: addr, Handler: fake}, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
