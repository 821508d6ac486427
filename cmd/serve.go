package cmd

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

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/eventbus"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/realtime"
	"fulfillment/internal/adapters/out/s3storage"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the websocket hub and the assignment sweep",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if err = cfg.Validate(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg Config, logger *slog.Logger) error {
	svc, err := newService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.close()
	return svc.run(ctx)
}

// service holds everything serve needs once setup has succeeded. Building it
// starts no goroutines.
type service struct {
	logger     *slog.Logger
	addr       string
	hub        *realtime.Hub
	subscriber *eventbus.RedisSubscriber
	echo       *echo.Echo
	jobs       *jobs.JobManager
	closers    []func() error
}

// newService performs every fallible setup step. Checks that need no network
// run first. On failure it closes whatever it already opened.
func newService(ctx context.Context, cfg Config, logger *slog.Logger) (_ *service, err error) {
	auth, err := httpin.NewAuthenticator(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	doc, err := httpin.LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}

	svc := &service{
		logger: logger,
		addr:   ":" + cfg.HTTPPort,
		hub:    realtime.NewHub(logger),
	}
	defer func() {
		if err != nil {
			svc.close()
		}
	}()

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err = postgres.Migrate(db.WithContext(ctx)); err != nil {
		return nil, err
	}

	var publishers eventbus.Multi
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		svc.closers = append(svc.closers, client.Close)
		if err = client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		publishers = append(publishers, eventbus.NewRedisPublisher(client, cfg.RedisChannel))
		svc.subscriber = eventbus.NewRedisSubscriber(client, cfg.RedisChannel, svc.hub, logger)
	} else {
		publishers = append(publishers, svc.hub)
	}
	if len(cfg.KafkaBrokers) > 0 {
		var kafka *eventbus.KafkaPublisher
		if kafka, err = eventbus.DialKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaClientID); err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, kafka.Close)
		publishers = append(publishers, kafka)
	}

	storage, err := s3storage.NewProofStorage(ctx, s3storage.Config{
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		Endpoint:      cfg.S3Endpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
		KeyPrefix:     cfg.S3KeyPrefix,
	})
	if err != nil {
		return nil, err
	}

	app := NewCompositionRoot(cfg, db, publisherOf(publishers), storage, logger)
	svc.echo = httpin.NewEcho(
		httpin.NewServer(app.HTTPHandlers(), svc.hub, auth, doc, logger),
		httpin.RouterConfig{
			CORSOrigins:   cfg.CORSOrigins,
			RatePerSecond: cfg.RateLimitPerSecond,
			Burst:         cfg.RateLimitBurst,
		},
	)
	svc.jobs = jobs.NewJobManager(app.CreateRiderAssignmentJob())
	return svc, nil
}

// run starts the background jobs, the hub, the redis fan-in and the HTTP
// server, and blocks until ctx is cancelled or one of them fails.
func (svc *service) run(ctx context.Context) error {
	if err := svc.jobs.StartAll(); err != nil {
		return err
	}
	defer svc.jobs.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		svc.hub.Run(gctx)
		return nil
	})
	if svc.subscriber != nil {
		g.Go(func() error { return svc.subscriber.Run(gctx) })
	}
	g.Go(func() error {
		svc.logger.Info("HTTP server listening", "addr", svc.addr)
		if err := svc.echo.Start(svc.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		svc.logger.Info("Shutting down")
		return svc.echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// close releases broker connections in reverse order of opening.
func (svc *service) close() {
	for i := len(svc.closers) - 1; i >= 0; i-- {
		if err := svc.closers[i](); err != nil {
			svc.logger.Warn("close connection", "error", err)
		}
	}
	svc.closers = nil
}

func publisherOf(publishers eventbus.Multi) ports.EventPublisher {
	if len(publishers) == 1 {
		return publishers[0]
	}
	return publishers
}
