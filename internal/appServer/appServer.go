package appServer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelapp/config"
	repository "travelapp/internal/database/postgres"
	"travelapp/internal/service"
	"travelapp/internal/transport"
	"travelapp/internal/worker"

	"travelapp/pkg/chapa"
	"travelapp/pkg/mailer"
	"travelapp/pkg/postgres"
	"travelapp/pkg/queue"
	"travelapp/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	logger := logrus.StandardLogger()

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Mailer
	smtp := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		Enabled:  cfg.Email.Enabled,
	})

	taskHandler := queue.NewTaskHandler(bookingRepo, listingRepo, userRepo, smtp, cfg.App.BaseURL)
	retryManager := queue.NewRetryManager(cfg.Notifications.MaxRetries, cfg.Notifications.RetryDelay)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Notification dispatcher: queue-backed when a broker is configured,
	// inline otherwise.
	var dispatcher service.NotificationDispatcher

	switch cfg.Queue.Driver {
	case "redis":
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()

		dlqHandler := queue.NewDefaultDLQHandler(redisClient, cfg.Queue.DLQ).WithMainQueue(cfg.Queue.MainQueue)
		redisQueue, err := queue.NewRedisQueue(&queue.RedisQueueConfig{
			Addr:       fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MainQueue:  cfg.Queue.MainQueue,
			DLQ:        cfg.Queue.DLQ,
			MaxRetries: cfg.Notifications.MaxRetries,
			RetryDelay: cfg.Notifications.RetryDelay,
		}, retryManager, dlqHandler)
		if err != nil {
			logrus.Fatalf("Failed to initialize Redis queue: %v", err)
		}
		defer redisQueue.Close()

		if err := redisQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
			logrus.Fatalf("Queue subscriber error: %v", err)
		}

		dispatcher = service.NewQueuedDispatcher(service.NewQueueAdapter(redisQueue), cfg.Notifications.MaxRetries, logger)
		logrus.Info("Redis queue initialized")

	case "rabbitmq":
		rabbitQueue, err := queue.NewRabbitQueue(queue.RabbitQueueConfig{
			URL:        cfg.RabbitMQ.URL,
			QueueName:  cfg.RabbitMQ.QueueName,
			MaxRetries: cfg.Notifications.MaxRetries,
			RetryDelay: cfg.Notifications.RetryDelay,
		}, retryManager)
		if err != nil {
			logrus.Fatalf("Failed to initialize RabbitMQ queue: %v", err)
		}
		defer rabbitQueue.Close()

		if err := rabbitQueue.Subscribe(ctx, taskHandler.HandleTask); err != nil {
			logrus.Fatalf("Queue subscriber error: %v", err)
		}

		dispatcher = service.NewQueuedDispatcher(service.NewQueueAdapter(rabbitQueue), cfg.Notifications.MaxRetries, logger)
		logrus.Info("RabbitMQ queue initialized")

	default:
		logrus.Warn("No queue driver configured, notifications run inline")
		dispatcher = service.NewInlineDispatcher(func(taskType string, bookingID int64) error {
			return taskHandler.HandleTask(&queue.Task{
				ID:   fmt.Sprintf("inline_%d", bookingID),
				Type: queue.TaskType(taskType),
				Data: map[string]interface{}{"booking_id": bookingID},
			})
		}, logger)
	}

	// Payment gateway client
	gateway := chapa.NewClient(cfg.Chapa.BaseURL, cfg.Chapa.SecretKey, cfg.Chapa.Timeout)

	// Initialize services
	listingService := service.NewListingService(listingRepo, reviewRepo, userRepo, logger)
	bookingService := service.NewBookingService(bookingRepo, listingRepo, userRepo, dispatcher, logger)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo, listingRepo, logger)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, userRepo, gateway, dispatcher, service.PaymentConfig{
		Currency: cfg.Chapa.Currency,
		BaseURL:  cfg.App.BaseURL,
	}, logger)
	userService := service.NewUserService(userRepo, logger)

	// Completion worker
	completionWorker := worker.NewCompletionWorker(bookingService, cfg.Worker.CompletionInterval, logger)
	go completionWorker.Start(ctx)

	// Initialize handlers
	listingHandler := transport.NewListingHandler(listingService)
	bookingHandler := transport.NewBookingHandler(bookingService, paymentService)
	reviewHandler := transport.NewReviewHandler(reviewService)
	userHandler := transport.NewUserHandler(userService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(listingHandler, bookingHandler, reviewHandler, userHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
