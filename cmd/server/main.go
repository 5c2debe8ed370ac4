package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/soucarbonell/portal-gateway/auth"
	"github.com/soucarbonell/portal-gateway/googleauth"
	"github.com/soucarbonell/portal-gateway/internal/config"
	"github.com/soucarbonell/portal-gateway/server"
	"github.com/soucarbonell/portal-gateway/server/loginsession"
	"github.com/soucarbonell/portal-gateway/sophia"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	if err := config.Validate(c); err != nil {
		return err
	}
	displayAppname(c.GetAppName())

	handler, err := buildServer(c)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func buildServer(c config.Config) (*server.Server, error) {
	sophiaClient := sophia.NewClient(c.GetSophiaBaseURL(), c.GetSophiaUser(), c.GetSophiaPassword())
	tokenCache := sophia.NewTokenCache(sophiaClient)

	google, err := googleauth.New(
		context.Background(),
		c.GetGoogleClientID(),
		c.GetGoogleClientSecret(),
		c.GetBaseURL()+server.RouteGoogleCallback,
		c.GetAllowedEmailDomain(),
	)
	if err != nil {
		return nil, fmt.Errorf("googleauth.New: %w", err)
	}

	authService, err := auth.NewService(tokenCache, sophiaClient, google)
	if err != nil {
		return nil, fmt.Errorf("auth.NewService: %w", err)
	}

	return server.New(c, authService, google, loginsession.NewInMemoryRepo())
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if c.GetEnv() == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("Server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
