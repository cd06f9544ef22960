package main

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vidshare-site/blob"
	"vidshare-site/config"
	"vidshare-site/handlers"
	"vidshare-site/processing"
	"vidshare-site/store"
)

func newRecordStore(ctx context.Context) (store.RecordStore, error) {
	backend := config.GetStoreBackend()
	switch backend {
	case "dynamodb":
		return store.NewDynamoStore(ctx, config.GetVideosTable(), config.GetRegion())
	case "sqlite":
		return store.NewSQLiteStore(config.GetSQLitePath())
	case "memory":
		return store.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

func main() {

	initLogger()

	if err := handlers.Init(log); err != nil {
		log.Panicf("failed to initialize handlers: %v", err)
	}

	ctx := context.Background()

	records, err := newRecordStore(ctx)
	if err != nil {
		log.Panicf("failed to create record store: %v", err)
	}

	videoStore, err := blob.NewS3Store(ctx, config.GetVideosBucket(), config.GetRegion())
	if err != nil {
		log.Panicf("failed to create video object store: %v", err)
	}
	thumbnailStore, err := blob.NewS3Store(ctx, config.GetThumbnailsBucket(), config.GetRegion())
	if err != nil {
		log.Panicf("failed to create thumbnail object store: %v", err)
	}

	worker := processing.NewWorker(records, videoStore, thumbnailStore, log)

	// consume storage notifications when a queue is configured
	if queueURL := config.GetEventsQueueURL(); queueURL != "" {
		consumer, err := processing.NewSQSConsumer(ctx, queueURL, config.GetRegion(), worker)
		if err != nil {
			log.Panicf("failed to create events consumer: %v", err)
		}
		go consumer.Run(ctx)
	}

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(corsMiddleware())

	var authRequired echo.MiddlewareFunc
	if secret := config.GetAuthSecret(); secret != "" {
		authRequired = authMiddleware(secret)
	}

	gateway := &handlers.Gateway{
		Records:   records,
		Videos:    videoStore,
		Worker:    worker,
		CDNDomain: config.GetCDNDomain(),
	}
	gateway.Register(e, authRequired)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Start server
	e.Logger.Fatal(e.Start(config.GetListenAddr()))
}
