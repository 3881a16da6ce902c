// Command focusroomd serves a shared focusroom store over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/internal/config"
	"github.com/ayoisaiah/focusroom/internal/osutil"
	"github.com/ayoisaiah/focusroom/internal/pathutil"
	"github.com/ayoisaiah/focusroom/internal/storeserver"
	"github.com/ayoisaiah/focusroom/store"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx *cli.Context) error {
	err := pathutil.Initialize()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.New(config.WithViperConfig(pathutil.ConfigFilePath()))
	if err != nil {
		return err
	}

	if addr := ctx.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	publicURL := cfg.Store.URL
	if u := ctx.String("public-url"); u != "" {
		publicURL = u
	}

	b, err := store.OpenBolt(pathutil.DBFilePath())
	if err != nil {
		return err
	}

	defer b.Close()

	if !ctx.Bool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := storeserver.New(
		b,
		store.NewDirAssets(pathutil.AssetsDir(), publicURL+"/assets"),
		store.NewTokens(cfg.Store.Secret, cfg.Store.TokenTTL),
		logger,
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-sigCtx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func main() {
	daemon := &cli.App{
		Name:    "focusroomd",
		Usage:   "Serve shared focusroom rooms over HTTP",
		Version: config.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.addr from the config file)",
			},
			&cli.StringFlag{
				Name:  "public-url",
				Usage: "Base URL clients use to reach this server (default: store.url)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Run gin in debug mode",
			},
		},
		Action: serve,
	}

	err := daemon.Run(os.Args)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(osutil.ExitError.Code())
	}
}
