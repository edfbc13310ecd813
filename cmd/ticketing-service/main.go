package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"bearcat-ticketing/internal/analytics"
	analyticsapi "bearcat-ticketing/internal/analytics/api"
	"bearcat-ticketing/internal/auth"
	"bearcat-ticketing/internal/checkin"
	checkinapi "bearcat-ticketing/internal/checkin/api"
	"bearcat-ticketing/internal/config"
	"bearcat-ticketing/internal/database/migrations"
	"bearcat-ticketing/internal/events"
	eventsapi "bearcat-ticketing/internal/events/api"
	eventsdb "bearcat-ticketing/internal/events/db"
	"bearcat-ticketing/internal/kafka"
	"bearcat-ticketing/internal/logger"
	"bearcat-ticketing/internal/mailer"
	"bearcat-ticketing/internal/metrics"
	"bearcat-ticketing/internal/tickets"
	ticketsdb "bearcat-ticketing/internal/tickets/db"
	redislock "bearcat-ticketing/internal/tickets/redis"
	"bearcat-ticketing/internal/tickets/ticket_api"
	usersdb "bearcat-ticketing/internal/users/db"
	"bearcat-ticketing/internal/utils"
)

func openDatabase(cfg *config.Config, log *logger.Logger) *bun.DB {
	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Error("DATABASE", fmt.Sprintf("failed to open postgres: %v", err))
		os.Exit(1)
	}
	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := sqldb.Ping(); err != nil {
		log.Error("DATABASE", fmt.Sprintf("failed to connect to postgres: %v", err))
		os.Exit(1)
	}
	log.Info("DATABASE", "postgres connection established")

	return bun.NewDB(sqldb, pgdialect.New())
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger()
	defer log.Close()

	bunDB := openDatabase(cfg, log)
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
		if err := runner.MigrateUp(); err != nil {
			log.Error("DATABASE", fmt.Sprintf("migrations failed: %v", err))
			os.Exit(1)
		}
		_ = runner.Close()
		log.Info("DATABASE", "schema migrations applied")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("redis unreachable, purchase locking degraded: %v", err))
	}

	ticketStore := &ticketsdb.DB{Bun: bunDB}
	eventStore := &eventsdb.DB{Bun: bunDB}
	userStore := &usersdb.DB{Bun: bunDB}
	purchaseLock := redislock.NewLock(redisClient, cfg.Redis.PurchaseLockTTL)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()

	var (
		ticketPublisher  tickets.NotificationPublisher
		checkinPublisher checkin.NotificationPublisher
	)
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{cfg.Kafka.NotificationTopic}); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("topic setup failed: %v", err))
		}

		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
		defer producer.Close()
		ticketPublisher = producer
		checkinPublisher = producer

		worker := mailer.NewWorker(
			mailer.NewMailer(cfg.Email, log),
			&mailer.DB{Bun: bunDB},
			log,
		)
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic, cfg.Kafka.GroupID, log)
		defer consumer.Close()
		go consumer.Start(consumerCtx, worker.Handle)
	} else {
		log.Warn("KAFKA", "kafka disabled, notifications will not be sent")
	}

	ticketService := tickets.NewTicketService(ticketStore, eventStore, userStore, purchaseLock, ticketPublisher, log)
	ticketService.CodeLength = cfg.Tickets.CodeLength
	ticketService.MaxCodeRetry = cfg.Tickets.MaxCodeRetry
	eventService := events.NewEventService(eventStore, userStore, log)
	checkinService := checkin.NewService(ticketStore, userStore, eventStore, checkinPublisher, log)
	analyticsService := analytics.NewService(bunDB)

	ticketHandler := ticket_api.NewHandler(ticketService, userStore)
	eventHandler := eventsapi.NewHandler(eventService)
	checkinHandler := checkinapi.NewHandler(checkinService)
	analyticsHandler := analyticsapi.NewHandler(analyticsService, userStore)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.OIDCIssuer))

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.CreateEvent)
			r.Get("/", eventHandler.ListEvents)
			r.Get("/{eventID}", eventHandler.GetEvent)
			r.Get("/{eventID}/tickets", ticketHandler.ListTicketsByEvent)
			r.Get("/{eventID}/attendance", ticketHandler.CheckedInCount)
			r.Get("/{eventID}/summary", analyticsHandler.EventSummary)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/purchase", ticketHandler.PurchaseTickets)
			r.Get("/mine", ticketHandler.MyTickets)
			r.Get("/{ticketID}", ticketHandler.ViewTicket)
		})

		r.Post("/checkin", checkinHandler.CheckIn)
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("API", fmt.Sprintf("ticketing service listening on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("API", fmt.Sprintf("http server error: %v", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	stopConsumer()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(ctxShutdown)
	log.Info("API", "ticketing service shutdown complete")
}
