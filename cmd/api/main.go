package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/config"
	"github.com/xavierca1/rhydle-waitlist/internal/entity"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/database"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/http/handlers"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/lock"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/logger"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/mail"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/queue"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/sheet"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/worker"
	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config inválida: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("falha ao criar logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Store
	var (
		db   *sql.DB
		repo entity.SignupRepositoryInterface
	)
	if cfg.DatabaseURL != "" {
		db, err = database.NewDBConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			zl.Fatal("falha ao conectar no Postgres", zap.Error(err))
		}
		defer db.Close()
		repo = database.NewSignupRepository(db)
	} else {
		zl.Warn("DATABASE_URL vazio, usando planilha em memória")
		repo = sheet.New(cfg.Columns)
	}

	// 2. Lock de inscrição
	var (
		rdb    *redis.Client
		locker usecase.Locker
	)
	if cfg.Redis.Addr != "" {
		rdb = lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, zl)
	} else {
		locker = lock.NewLocalLocker()
	}

	// 3. Email
	var notifier usecase.Notifier
	if cfg.Mail.Host != "" {
		notifier = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
	} else {
		notifier = mail.NewLogSender(zl)
	}
	templates := mail.NewTemplates(cfg.APKDownloadLink, cfg.BetaLaunchDate)

	// 4. UseCases
	notifyUC := usecase.NewSendNotificationUseCase(repo, notifier, templates, cfg.ReplyToEmail, cfg.SenderName, zl)
	registerUC := usecase.NewRegisterSignupUseCase(repo, notifyUC, locker, zl)
	sweepUC := usecase.NewSweepBetaUseCase(repo, notifyUC, cfg.SweepDelay, zl)

	// 5. Disparo do sweep: fila se houver RabbitMQ, senão goroutine local
	var (
		amqpConn  *amqp.Connection
		requester usecase.SweepRequester
	)
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			zl.Fatal("falha ao conectar no RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()
		amqpConn = rabbitMQ.Conn

		consumerCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			zl.Fatal("falha ao abrir canal do worker", zap.Error(err))
		}
		defer consumerCh.Close()

		requester = queue.NewProducer(rabbitMQ.Ch)
		w := queue.NewWorker(consumerCh, sweepUC, zl)
		go func() {
			if err := w.Start(ctx, queue.QueueName); err != nil {
				// sem consumidor os pedidos ficam presos na fila: derruba o processo para reiniciar
				zl.Error("❌ worker encerrado, desligando o servidor", zap.Error(err))
				stop()
			}
		}()
	} else {
		requester = worker.NewInlineSweeper(ctx, sweepUC, zl)
	}

	scheduler := worker.NewLaunchScheduler(requester, zl)
	defer scheduler.Cancel()
	if cfg.ScheduleOnStart {
		scheduler.ScheduleOneTime(cfg.BetaLaunchDate)
	}

	// 6. Handlers
	limiter := handlers.DefaultRateLimiter()
	defer limiter.Stop()

	router := newRouter(routes{
		waitlist: handlers.NewWaitlistHandler(registerUC, limiter, zl),
		admin: &handlers.AdminHandler{
			Repo:          repo,
			Notifier:      notifyUC,
			Sweeper:       sweepUC,
			Requester:     requester,
			Scheduler:     scheduler,
			Columns:       cfg.Columns,
			DefaultFireAt: cfg.BetaLaunchDate,
			Logger:        zl,
		},
		health:         handlers.NewHealthHandler(db, amqpConn, rdb),
		adminToken:     cfg.AdminToken,
		allowedOrigins: cfg.AllowedOrigins,
		trustProxy:     cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("🔥 waitlist rodando", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("falha no servidor HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown com erro", zap.Error(err))
	}
}
