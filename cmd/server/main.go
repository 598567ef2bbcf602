package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/entityhub/internal/config"
	"github.com/iliyamo/entityhub/internal/database"
	"github.com/iliyamo/entityhub/internal/handler"
	"github.com/iliyamo/entityhub/internal/mail"
	"github.com/iliyamo/entityhub/internal/middleware"
	"github.com/iliyamo/entityhub/internal/queue"
	"github.com/iliyamo/entityhub/internal/repository"
	"github.com/iliyamo/entityhub/internal/router"
	"github.com/iliyamo/entityhub/internal/service"
	"github.com/iliyamo/entityhub/internal/utils"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connected", zap.String("addr", cfg.DSNAddr()))

	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient(log)
	if rdb != nil {
		defer rdb.Close()
	}

	tokens := utils.NewTokenIssuer(utils.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshSecret: cfg.JWTRefreshSecret,
		RefreshTTL:    cfg.RefreshTTL,
		ResetTTL:      cfg.ResetTTL,
	})
	hasher := utils.NewBcryptHasher(cfg.BcryptCost)

	users := repository.NewUserRepo(db)
	entities := repository.NewEntityRepo(db)
	activities := repository.NewActivityRepo(db)
	registry := repository.NewRegistry(cfg.PageSizes,
		users.Model(), entities.Model(), activities.Model(), activities.TypeModel())
	pages := service.NewPaginator(registry, cfg.PageSizeDefault)

	direct, err := newDirectMailer(cfg.Mail, log)
	if err != nil {
		return err
	}
	var mailer service.Mailer = direct
	if cfg.RabbitURL != "" {
		mailer = queue.NewPublisher(cfg.RabbitURL, log)
		if cfg.MailConsumerEnabled {
			go func() {
				if err := queue.StartMailConsumer(ctx, cfg.RabbitURL, direct, log); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("mail consumer stopped", zap.Error(err))
				}
			}()
		}
	}

	authSvc := service.NewAuthService(users, hasher, tokens, mailer, cfg.ResetPasswordURL, log)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e, router.Handlers{
		Health:     handler.Health(db),
		Auth:       handler.NewAuthHandler(authSvc, tokens),
		Entities:   handler.NewEntityHandler(service.NewEntityService(entities, pages)),
		Activities: handler.NewActivityHandler(service.NewActivityService(activities, pages)),
		Users:      handler.NewUserHandler(service.NewUserService(users, pages)),
		Helpers:    handler.NewHelperHandler(pages),
	}, router.Options{
		Tokens:    tokens,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

func newDirectMailer(cfg config.MailConfig, log *zap.Logger) (queue.DirectMailer, error) {
	var sender mail.Sender = mail.NewLogSender(log)
	if cfg.Mode == config.MailModeResend {
		rs, err := mail.NewResendSender(cfg.ResendAPIKey)
		if err != nil {
			return queue.DirectMailer{}, err
		}
		sender = rs
	}
	return queue.DirectMailer{Sender: sender, From: mail.FromAddress(cfg.AppName, cfg.From)}, nil
}
