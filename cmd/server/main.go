package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-seat-booking/internal/booking"
	"github.com/iliyamo/event-seat-booking/internal/config"
	"github.com/iliyamo/event-seat-booking/internal/database"
	"github.com/iliyamo/event-seat-booking/internal/handler"
	"github.com/iliyamo/event-seat-booking/internal/lock"
	"github.com/iliyamo/event-seat-booking/internal/queue"
	"github.com/iliyamo/event-seat-booking/internal/repository"
	"github.com/iliyamo/event-seat-booking/internal/reservation"
	"github.com/iliyamo/event-seat-booking/internal/router"
)

func main() {
	// .env is a local development convenience; in deployment the
	// variables come from the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis and RabbitMQ are advisory layers; either may be absent and
	// the engine runs store-only.
	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher *queue.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = queue.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("rabbitmq: connect failed, notifications disabled: %v", err)
		} else {
			defer publisher.Close()
			go queue.StartBookingConsumer(cfg.AMQPURL)
		}
	}

	seatStore := repository.NewSeatStore(db)
	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	holdCache := reservation.NewHoldCache(rdb, cfg.HoldCachePrefix)
	manager := reservation.NewManager(seatStore, eventRepo, holdCache, publisher, cfg.HoldTTL)
	orchestrator := booking.NewOrchestrator(
		booking.NewSQLStore(db, seatStore, bookingRepo),
		booking.FlatFee{PerBookingCents: cfg.FlatFeeCents},
		holdCache,
		publisher,
	)

	var locker reservation.Locker
	if rdb != nil {
		locker = lock.New(rdb)
	}
	reaper := reservation.NewReaper(seatStore, locker, cfg.ReaperInterval, cfg.ReaperLockTTL)
	reaper.Start()
	defer reaper.Stop()

	e := echo.New()
	e.HideBanner = true
	router.Register(e,
		handler.NewReservationHandler(manager),
		handler.NewBookingHandler(orchestrator, bookingRepo),
		handler.NewSeatHandler(seatStore, eventRepo),
		handler.NewEventHandler(eventRepo),
		cfg.JWTSecret,
	)

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
