package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpcontext "github.com/mento-app/mento-server/internal/api/http/context"
	"github.com/mento-app/mento-server/internal/api/http/router"
	httpServer "github.com/mento-app/mento-server/internal/api/http/server"
	"github.com/mento-app/mento-server/internal/config"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
	"github.com/mento-app/mento-server/internal/repository/postgres"
	"github.com/mento-app/mento-server/internal/repository/sqlite"
	"github.com/mento-app/mento-server/internal/server"
	"github.com/mento-app/mento-server/internal/service"
	"github.com/mento-app/mento-server/internal/telemetry"
	"github.com/mento-app/mento-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// stores groups the repositories of one database driver.
type stores struct {
	users       model.UserStore
	completions model.CompletionStore
	progress    model.ProgressStore
	onboarding  model.OnboardingStore
	db          interface {
		Ping(ctx context.Context) error
		Close() error
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, buildVersion)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "error", err)
	}

	st, err := openStores(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err, "driver", cfg.Database.Driver)
	}
	defer st.db.Close()

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	progressService := service.NewProgress(st.users, st.completions, st.progress, logger,
		service.WithMaxLevel(cfg.Progress.MaxLevel),
		service.WithSequentialCompletion(cfg.Progress.EnforceSequence),
	)
	authService := service.NewAuth(st.users, tokenManager, logger)
	onboardingService := service.NewOnboarding(st.users, st.onboarding, logger)

	r := router.New(progressService, authService, onboardingService, st.db, tokenManager, httpcontext.NewManager(), logger,
		router.Options{
			AuthRequired: cfg.Auth.Required,
			Verbose:      !cfg.IsProduction(),
		})

	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}
	wg.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("error flushing traces", "error", err)
	}
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg config.Database) (*stores, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewConection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:       postgres.NewUserRepository(db),
			completions: postgres.NewCompletionRepository(db),
			progress:    postgres.NewProgressRepository(db),
			onboarding:  postgres.NewOnboardingRepository(db),
			db:          db,
		}, nil
	default:
		db, err := sqlite.NewConnection(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:       sqlite.NewUserRepository(db),
			completions: sqlite.NewCompletionRepository(db),
			progress:    sqlite.NewProgressRepository(db),
			onboarding:  sqlite.NewOnboardingRepository(db),
			db:          db,
		}, nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
