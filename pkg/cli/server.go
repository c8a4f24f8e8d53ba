package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080
)

var (
	portFlag = &cli.IntFlag{
		Name:     "port",
		Usage:    "Port on which the server will listen",
		Value:    serverPortDefault,
		Required: false,
	}

	serverCmd = &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP server exposing the model and catalog",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			portFlag,
			debugFlag,
		},
	}
)

func cmdStartServer(c *cli.Context) error {
	applyFlags(c)
	cfg := getConfig(c)
	port := c.Int(portFlag.Name)
	address := fmt.Sprintf("127.0.0.1:%d", port)

	// train once at startup; handlers share the immutable model
	m, items, err := trainModel(cfg)
	if err != nil {
		return err
	}
	slog.Info("model ready", "items", m.TrainedOn, "baseline", m.Baseline)

	mux := makeRouter(cfg, m, items)
	s := &http.Server{
		Addr:           address,
		Handler:        mux,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address))

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}
