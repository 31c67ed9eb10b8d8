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
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/ebikepoint/erp/internal/config"
	"github.com/ebikepoint/erp/taskapi"
	"github.com/ebikepoint/erp/taskapi/tasks"
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

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	displayAppname(cfg.AppName + " Tasks")

	logger := newLogger(cfg)
	repo, err := newTaskRepo(cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: taskapi.New(cfg.AppName+" Tasks", repo, logger),
	}
	go listenAndServe(server)
	waitForStopSignal()
	return shutdown(server, cfg.HTTP.ShutdownTimeout)
}

func newLogger(cfg *config.AppConfig) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// newTaskRepo selects the task store: SQLite when a path is configured,
// in-memory otherwise.
func newTaskRepo(cfg *config.AppConfig) (tasks.Repo, error) {
	if cfg.Store.SQLitePath != "" {
		repo, err := tasks.NewSQLiteRepo(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("tasks.NewSQLiteRepo: %w", err)
		}
		return repo, nil
	}
	return tasks.NewInMemoryRepo(), nil
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

func shutdown(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
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
