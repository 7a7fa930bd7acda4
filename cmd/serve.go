package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhil/togglenest/internal/cache"
	"github.com/nikhil/togglenest/internal/config"
	"github.com/nikhil/togglenest/internal/database"
	"github.com/nikhil/togglenest/internal/events"
	"github.com/nikhil/togglenest/internal/handlers"
	"github.com/nikhil/togglenest/internal/logger"
	"github.com/nikhil/togglenest/internal/middleware"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/routes"
	"github.com/nikhil/togglenest/internal/service/activity"
	"github.com/nikhil/togglenest/internal/service/board"
	"github.com/nikhil/togglenest/internal/service/dashboard"
	"github.com/nikhil/togglenest/internal/service/membership"
	"github.com/nikhil/togglenest/internal/service/projects"
	"github.com/nikhil/togglenest/internal/store"
	"github.com/nikhil/togglenest/internal/store/mongostore"
	"github.com/nikhil/togglenest/internal/store/sqlstore"
)

const shutdownTimeout = 10 * time.Second

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.NewLogger(appName, cfg.AppEnv)
	defer log.Sync()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	log.Info("Store ready", "driver", cfg.StoreDriver)

	c, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	var pub events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return err
		}
		pub = natsPub
		log.Info("Publishing activities to NATS", "subject", cfg.NATSSubject)
	}
	defer pub.Close()

	hub := models.NewHub(log.Named("hub"))
	go hub.Run(ctx)

	act := activity.NewActivityService(st, hub, pub, log.Named("activity-service"))
	memberSvc := membership.NewMembershipService(st, act, c, cfg.MembershipSource, log.Named("membership-service"))
	projectSvc := projects.NewProjectService(st, c, cfg.CacheTTL, log.Named("project-service"))
	dashboardSvc := dashboard.NewDashboardService(st, c, cfg.CacheTTL, log.Named("dashboard-service"))
	boardSvc := board.NewBoardService(st, act, cfg.StrictProjectRefs, log.Named("board-service"))

	httpLog := log.Named("http")
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go sweepLimiter(ctx, limiter)

	router := routes.RegisterAllRoutes(&routes.Handlers{
		Onboarding: handlers.NewOnboardingHandler(memberSvc, httpLog),
		Projects:   handlers.NewProjectHandler(projectSvc, httpLog),
		Dashboard:  handlers.NewDashboardHandler(dashboardSvc, httpLog),
		Board:      handlers.NewBoardHandler(boardSvc, httpLog),
		Activity:   handlers.NewActivityHandler(act, httpLog),
		Auth:       handlers.NewAuthHandler(cfg.JWTSecret, httpLog),
		WebSocket:  handlers.NewWebSocketHandler(hub, httpLog),
	}, routes.Options{
		JWTSecret:   cfg.JWTSecret,
		RateLimiter: limiter,
		Log:         httpLog,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server is running", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.StoreDriver == config.DriverMongo {
		db, err := database.NewMongoDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		if err := db.Initialize(ctx); err != nil {
			db.Close(context.Background())
			return nil, err
		}
		return mongostore.New(db), nil
	}

	driver, dsn := sqlTarget(cfg)
	db, err := database.OpenSQL(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}
	s, err := sqlstore.New(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func openCache(ctx context.Context, cfg *config.Config) (cache.CacheInterface, func(), error) {
	switch cfg.CacheDriver {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, appName)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { rc.Close() }, nil
	case config.CacheNone:
		return cache.Noop{}, func() {}, nil
	default:
		return cache.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL), func() {}, nil
	}
}

func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup()
		}
	}
}
