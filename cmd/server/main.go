package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deckswipe-server/internal/collection"
	"deckswipe-server/internal/config"
	"deckswipe-server/internal/game"
	"deckswipe-server/internal/handler"
	"deckswipe-server/internal/metrics"
	"deckswipe-server/internal/progress"
	sharedDatabase "deckswipe-server/shared/database"
	"deckswipe-server/shared/interfaces"
	sharedLogger "deckswipe-server/shared/logger"
	sharedMessaging "deckswipe-server/shared/messaging"
	sharedMiddleware "deckswipe-server/shared/middleware"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	log.Println("Запуск DeckSwipe Server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger, err := sharedLogger.New(sharedLogger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
		Service:  "deckswipe-server",
	})
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer logger.Sync()
	logger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	appMetrics := metrics.New()

	repo, closeRepo, err := setupProgressRepository(cfg, logger)
	if err != nil {
		logger.Fatal("Не удалось инициализировать хранилище прогресса", zap.Error(err))
	}
	defer closeRepo()
	storage := progress.NewStorage(repo, appMetrics, logger)

	publisher, closePublisher, err := setupRunEventPublisher(cfg, logger)
	if err != nil {
		logger.Fatal("Не удалось инициализировать публикацию событий", zap.Error(err))
	}
	defer closePublisher()

	importer := collection.NewCachedImporter(setupCollection(cfg, logger))
	// Прогреваем кэш коллекции в фоне; ошибка не фатальна, сессии используют запасные карты.
	go func() {
		if _, err := importer.Import(context.Background()); err != nil {
			logger.Warn("Collection warm-up failed", zap.Error(err))
		}
	}()

	hub := handler.NewStreamHub(logger)
	factory := func(playerID uuid.UUID) *game.Game {
		return game.New(game.Deps{
			PlayerID:  playerID,
			Importer:  importer,
			Progress:  storage,
			Publisher: publisher,
			Presenter: hub.Presenter(playerID),
			Notifier:  hub.Notifier(playerID),
			RNG:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			Metrics:   appMetrics,
			Logger:    logger,
		}, cfg.SaveInterval)
	}
	sessions := handler.NewSessionManager(factory, cfg.LoadTimeout, appMetrics, logger)
	gameHandler := handler.NewGameHandler(sessions, hub, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.RequestID())
	e.Use(sharedMiddleware.EchoZapLogger(logger, "/health", "/metrics"))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok", "sessions": sessions.Len()})
	})
	e.GET("/metrics", echo.WrapHandler(appMetrics.Handler()))
	gameHandler.RegisterRoutes(e)

	go func() {
		logger.Info("HTTP сервер слушает", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска HTTP сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Получен сигнал завершения, начинаем graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Ошибка при graceful shutdown Echo", zap.Error(err))
	}
	hub.CloseAll()
	if err := sessions.CloseAll(ctx); err != nil {
		logger.Error("Не удалось сохранить прогресс всех сессий", zap.Error(err))
	}
	if err := storage.Flush(ctx); err != nil {
		logger.Error("Не все сохранения прогресса завершены", zap.Error(err))
	}

	logger.Info("DeckSwipe Server успешно остановлен")
}

func setupCollection(cfg *config.Config, logger *zap.Logger) interfaces.CollectionImporter {
	var local, remote interfaces.CollectionImporter
	if cfg.CollectionPath != "" {
		local = collection.NewFileImporter(cfg.CollectionPath, logger)
	}
	if cfg.CollectionURL != "" {
		remote = collection.NewRemoteImporter(cfg.CollectionURL, cfg.CollectionTimeout, logger)
	}
	return collection.NewSourceChain(local, remote, cfg.LoadRemoteCollectionFirst, logger)
}

// setupProgressRepository выбирает хранилище прогресса по PROGRESS_BACKEND.
func setupProgressRepository(cfg *config.Config, logger *zap.Logger) (interfaces.GameProgressRepository, func(), error) {
	switch cfg.ProgressBackend {
	case config.ProgressBackendPostgres:
		if err := sharedDatabase.ApplyMigrations(cfg.GetDSN()); err != nil {
			return nil, nil, err
		}
		pool, err := sharedDatabase.NewPool(context.Background(), sharedDatabase.PoolConfig{
			DSN:         cfg.GetDSN(),
			MaxConns:    int32(cfg.DBMaxConns),
			IdleTimeout: cfg.DBIdleTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return sharedDatabase.NewPgGameProgressRepository(pool, logger), pool.Close, nil

	case config.ProgressBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("не удалось подключиться к Redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Успешное подключение к Redis", zap.String("addr", cfg.RedisAddr))
		return sharedDatabase.NewRedisGameProgressRepository(client, cfg.ProgressTTL, logger), func() { _ = client.Close() }, nil

	default:
		repo, err := sharedDatabase.NewFileGameProgressRepository(cfg.ProgressDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}

// setupRunEventPublisher подключается к RabbitMQ, если задан RABBITMQ_URL.
func setupRunEventPublisher(cfg *config.Config, logger *zap.Logger) (interfaces.RunEventPublisher, func(), error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL не задан, события забегов отключены")
		return sharedMessaging.NopRunEventPublisher{}, func() {}, nil
	}
	conn, err := connectRabbitMQ(cfg.RabbitMQURL, logger)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := sharedMessaging.NewRabbitMQRunEventPublisher(conn, cfg.RunEventsQueue, logger)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return publisher, func() {
		_ = publisher.Close()
		_ = conn.Close()
	}, nil
}

// connectRabbitMQ пытается подключиться к RabbitMQ с несколькими попытками
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 3 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			logger.Info("Успешное подключение к RabbitMQ")
			return conn, nil
		}
		logger.Warn("Не удалось подключиться к RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, fmt.Errorf("не удалось подключиться к RabbitMQ после %d попыток: %w", maxRetries, err)
}
