package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/KruthikaDR/EventFlow-main/internal/config"
	"github.com/KruthikaDR/EventFlow-main/internal/es"
	"github.com/KruthikaDR/EventFlow-main/internal/httpserver"
	"github.com/KruthikaDR/EventFlow-main/internal/logging"
	loggingmw "github.com/KruthikaDR/EventFlow-main/internal/middleware/logging"
	"github.com/KruthikaDR/EventFlow-main/internal/mykafka"
	"github.com/KruthikaDR/EventFlow-main/internal/repo"
	"github.com/KruthikaDR/EventFlow-main/internal/search"
	"github.com/KruthikaDR/EventFlow-main/internal/service"
	"github.com/KruthikaDR/EventFlow-main/internal/tokens"
)

const directoryIndex = "participants"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	codec := tokens.NewCodec([]byte(cfg.JWTSecret), []byte(cfg.RefreshSecret))
	svc := service.NewAuthService(repo.NewGormRepo(db), codec)

	var producer *mykafka.Producer
	if cfg.KafkaAddress != "" {
		producer = mykafka.NewProducer([]string{cfg.KafkaAddress}, "account_events")
		defer producer.Close()
	}

	deps := &httpserver.Deps{
		Codec: codec,
		Auth:  &httpserver.AuthHTTP{Svc: svc, Producer: producer},
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		deps.Auth.Indexer = search.NewIndexer(esClient, directoryIndex)
		deps.Search = httpserver.NewSearchHTTP(esClient, directoryIndex)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("auth service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("auth service stopped")
}
