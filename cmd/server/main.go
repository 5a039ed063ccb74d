package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/flyodesk/agency-console/coreapi"
	"github.com/flyodesk/agency-console/emaillink"
	"github.com/flyodesk/agency-console/emaillink/flowstate"
	"github.com/flyodesk/agency-console/internal/config"
	"github.com/flyodesk/agency-console/server"
	"github.com/flyodesk/agency-console/server/agentsession"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	deps, err := buildDeps(c)
	if err != nil {
		return fmt.Errorf("buildDeps: %w", err)
	}

	consoleServer, err := server.New(c, deps)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: consoleServer}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildDeps wires the server's collaborators. Flow and session state live in
// Redis when REDIS_ADDR is set, otherwise in process memory.
func buildDeps(c config.Config) (server.Deps, error) {
	deps := server.Deps{
		Core:     coreapi.New(c),
		Flows:    flowstate.NewInMemoryRepo(),
		Sessions: agentsession.NewInMemoryRepo(),
	}

	if addr := c.GetRedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		deps.Flows = flowstate.NewRedisRepo(client, c.GetFlowStateTimeout())
		deps.Sessions = agentsession.NewRedisRepo(client, c.GetLegacySessionTimeout())
		log.Printf("Using Redis state at %s\n", addr)
	}

	if c.GetGoogleCredentials().Configured() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		google, err := emaillink.NewGoogleExchanger(ctx, c.GetGoogleCredentials())
		if err != nil {
			return server.Deps{}, fmt.Errorf("emaillink.NewGoogleExchanger: %w", err)
		}
		deps.Google = google
	}

	return deps, nil
}

func configureLogging(c config.Config) {
	if strings.EqualFold(c.GetEnv(), "dev") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
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
