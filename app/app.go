package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"job-commerce-api/internal/config"
	"job-commerce-api/internal/controller"
	"job-commerce-api/internal/logger"
	"job-commerce-api/internal/notify"
	"job-commerce-api/internal/repo"
	"job-commerce-api/internal/service"
	"job-commerce-api/pkg/http_server"
	"job-commerce-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
	"github.com/sirupsen/logrus"
)

func migrateTables(pg *postgres.Postgres, sourceUrl string, databaseName string, log logrus.FieldLogger) error {
	driver, err := pgmigrate.WithInstance(pg.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		return err
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		return err
	}

	if err := migrations.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Info("no change made by migration scripts")
	}

	return nil
}

// notifier publishes to Redis when REDIS_URL is set and drops events otherwise.
func notifier(cfg config.RedisConfig, log logrus.FieldLogger) (notify.Notifier, func()) {
	if cfg.URL == "" {
		log.Warn("REDIS_URL is not set, notifications are disabled")
		return notify.Nop{}, func() {}
	}

	client, err := notify.Connect(context.Background(), cfg.URL)
	if err != nil {
		log.WithError(err).Fatal("error occurred while connecting to redis")
	}

	return notify.NewRedisNotifier(client, cfg.Channel), func() { _ = client.Close() }
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	log.Info("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.Database.URL, postgres.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.WithError(err).Fatal("error occurred while connecting to db")
	}
	defer postgresDB.Close()

	log.WithField("source", cfg.Database.MigrationsURL).Info("Running migrations...")
	if err := migrateTables(postgresDB, cfg.Database.MigrationsURL, cfg.Database.Name, log); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	events, closeEvents := notifier(cfg.Redis, log)
	defer closeEvents()

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories, events, cfg.Commerce, log)
	handler := echo.New()
	handler.HideBanner = true

	log.Info("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, log)

	log.WithField("address", cfg.Server.Address).Info("Starting server...")
	httpServer := http_server.New(handler, cfg.Server.Address, cfg.Server.ShutdownTimeout)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.WithField("signal", s.String()).Info("Got signal")
	case err = <-httpServer.Notify():
		log.WithError(err).Error("server stopped")
	}

	log.Info("Shutting down...")
	if err := httpServer.Shutdown(); err != nil {
		log.WithError(err).Error("shutdown error")
		return
	}
	log.Info("Successful shutdown")
}
