package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Freeeeeet/testdrive_bot/internal/config"
	"github.com/Freeeeeet/testdrive_bot/internal/dialogue"
	"github.com/Freeeeeet/testdrive_bot/internal/intent"
	"github.com/Freeeeeet/testdrive_bot/internal/repository"
	"github.com/Freeeeeet/testdrive_bot/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Services собранные зависимости приложения
type Services struct {
	Bookings *service.BookingService
	Catalog  *service.CatalogService
	Engine   *dialogue.Engine

	closers []func() error
}

// Close освобождает ресурсы в обратном порядке
func (s *Services) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build открывает хранилище, каталог и классификатор и собирает движок диалога
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	svc := &Services{}

	bookings, closeStore, err := OpenBookings(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	svc.Bookings = bookings
	svc.closers = append(svc.closers, closeStore)

	svc.Catalog, err = service.NewCatalogService(repository.NewVehicleRepository(cfg.CatalogPath), logger)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("create catalog: %w", err)
	}

	policy, err := dialogue.PolicyByName(cfg.SelectionPolicy)
	if err != nil {
		svc.Close()
		return nil, err
	}

	classifier, closeClassifier, err := NewClassifier(ctx, cfg, logger)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.closers = append(svc.closers, closeClassifier)

	svc.Engine = dialogue.NewEngine(svc.Catalog, svc.Bookings, classifier, logger,
		dialogue.WithPolicy(policy),
	)

	return svc, nil
}

// OpenBookings планировщик поверх хранилища из конфигурации
func OpenBookings(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service.BookingService, func() error, error) {
	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	bookings, err := service.NewBookingService(ctx, store, logger, service.WithDefaultSettings(cfg.BookingSettings()))
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("create booking service: %w", err)
	}
	return bookings, closeStore, nil
}

// OpenStore открывает хранилище броней по STORE_DRIVER
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}

		if err := Migrate(ctx, pool, cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}

		logger.Info("Using postgres booking store")
		return repository.NewBookingRepository(pool), func() error {
			pool.Close()
			return nil
		}, nil

	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create store dir: %w", err)
		}
		store, err := repository.OpenSQLiteStore(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using sqlite booking store", zap.String("path", cfg.StorePath))
		return store, store.Close, nil

	default:
		logger.Info("Using JSON booking store", zap.String("path", cfg.StorePath))
		return repository.NewFileStore(cfg.StorePath), func() error { return nil }, nil
	}
}

// Migrate применяет миграции к базе pool
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
	migrator, err := NewMigrator(pool, dir, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}

// NewClassifier Gemini, если задан ключ, всегда с ключевым резервом
func NewClassifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (intent.Classifier, func() error, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Info("GEMINI_API_KEY not set, using keyword classifier")
		return intent.WithFallback(nil, logger), func() error { return nil }, nil
	}

	gen, err := intent.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, nil, fmt.Errorf("create gemini classifier: %w", err)
	}

	logger.Info("Using Gemini classifier", zap.String("model", cfg.GeminiModel))
	return intent.WithFallback(intent.NewLLM(gen), logger), gen.Close, nil
}
