// @title           GPS Attendance API
// @version         1.0
// @description     Face and geofence verified attendance marking, daily reports and live tracking.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	_ "github.com/MahimaAnade/GPS-Attendance-system/docs"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/api"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/api/handler"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/ports"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/service"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/infrastructure/db/mongo"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/infrastructure/db/redis"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/infrastructure/notify"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/infrastructure/queue"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/pkg/config"
	"github.com/MahimaAnade/GPS-Attendance-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "gps-attendance",
	})

	sched, err := cfg.Policy.Schedule()
	if err != nil {
		log.Fatal().Err(err).Msg("attendance schedule")
	}
	policy := service.Policy{
		Fence:    cfg.Policy.Fence(),
		Matcher:  cfg.Policy.Matcher(),
		Schedule: sched,
	}

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	subjects := mongo.NewSubjectRepository(db)
	attendances := mongo.NewAttendanceRepository(db)
	if err := subjects.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure subject indexes")
	}
	if err := attendances.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure attendance indexes")
	}

	health := map[string]handler.Pinger{"mongodb": mongo.Pinger{Client: mongoClient}}

	// --- Redis (optional admission lock) ---
	var guard ports.AdmissionGuard
	if cfg.Redis.Enabled {
		var rdb *goredis.Client
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()

		guard = redis.NewAdmissionLock(rdb, cfg.Redis.LockTTL)
		health["redis"] = redis.Pinger{Client: rdb}
	} else {
		log.Warn().Msg("redis disabled, concurrent admissions rely on the ledger index alone")
	}

	// --- Notifications ---
	var notifier ports.Notifier = notify.LogNotifier{Log: logger.Component("notify")}
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.SMTP.Workers, notifier, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)

	// --- Services ---
	authService := service.NewAuthService(subjects, policy.Matcher, cfg.JWTSecret, cfg.TokenTTL)
	verifier := service.NewVerificationService(subjects, attendances, guard, policy, logger.Component("verification"))
	reports := service.NewReportService(subjects, attendances, sched, logger.Component("report"))
	live := service.NewLiveLocationService(subjects, attendances, policy.Fence, sched, cfg.Policy.LiveLookupWorkers, logger.Component("live"))
	resets := service.NewResetService(subjects, attendances, dispatcher, sched, logger.Component("reset"))

	e := api.NewRouter(api.Dependencies{
		Log:          log,
		JWTSecret:    cfg.JWTSecret,
		Location:     sched.Location,
		Auth:         authService,
		Verification: verifier,
		Reports:      reports,
		Live:         live,
		Resets:       resets,
		Roster:       subjects,
		Health:       health,
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("admission", sched.Admission.String()).
			Str("tracking", sched.Tracking.String()).
			Str("timezone", sched.Location.String()).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("goodbye")
}
