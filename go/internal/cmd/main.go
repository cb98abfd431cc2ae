package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/courtside/go/internal/broadcast"
	"github.com/mcdev12/courtside/go/internal/gateway"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	config, err := loadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	database, err := setupDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer database.Close()

	publisher, err := broadcast.NewPublisher(broadcast.Config{
		URL:           config.Nats.URL,
		SubjectPrefix: config.Nats.SubjectPrefix,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect broadcaster")
	}
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Viewer gateway: WebSocket pools fed by the NATS subscription.
	gw := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go gw.Start(ctx)

	consumer := gateway.NewConsumer(publisher.Conn(), gw, config.Nats.SubjectPrefix)
	if err := consumer.Subscribe(); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe gateway consumer")
	}
	defer consumer.Unsubscribe()

	var redisClient *redis.Client
	if config.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: config.Redis.Addr})
		defer redisClient.Close()
	}

	services := setupServices(database, publisher, gw, redisClient)
	server := setupServer(config, services)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("courtside listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
