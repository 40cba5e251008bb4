package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/chimei/internal/api"
	"github.com/samcharles93/chimei/internal/inference"
	"github.com/samcharles93/chimei/internal/logger"
	"github.com/samcharles93/chimei/internal/metrics"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		workers     int
		eager       bool
		rateLimit   float64
		rateBurst   int
		sampling    samplingSettings
	)

	flags := append(commonModelFlags(),
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.IntFlag{
			Name:        "workers",
			Usage:       "names generated in parallel per request",
			Value:       4,
			Destination: &workers,
		},
		&cli.Float64Flag{
			Name:        "rate-limit",
			Usage:       "max name requests per second across all clients (0 = unlimited)",
			Destination: &rateLimit,
		},
		&cli.IntFlag{
			Name:        "rate-burst",
			Usage:       "requests allowed above --rate-limit in a burst",
			Value:       10,
			Destination: &rateBurst,
		},
		&cli.BoolFlag{
			Name:        "eager",
			Usage:       "load the engine at startup instead of on the first request",
			Destination: &eager,
		},
	)

	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the name generation API",
		Flags:  append(append(flags, samplingFlags(&sampling)...), loggingFlags()...),
		Before: installLogger,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, LoadConfig(), &addr, &workers, &sampling)

			orch, _, err := newOrchestrator(ctx, sampling.apply(inference.Config{Workers: workers}))
			if err != nil {
				return err
			}
			defer func() {
				if err := orch.Close(); err != nil {
					log.Warn("close engine", "error", err)
				}
			}()

			metrics.Register()
			orch.SetObserver(metrics.Recorder{})
			if eager {
				if _, err := orch.Session().Engine(ctx); err != nil {
					return err
				}
			}

			server := api.NewServer(api.NewNameService(orch), metrics.Handler())
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			if rateLimit > 0 {
				e.Use(api.RateLimit(rateLimit, rateBurst))
			}
			server.Register(e)
			log.Info("starting server", "address", addr, "workers", workers)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
