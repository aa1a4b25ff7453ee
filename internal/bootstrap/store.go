package bootstrap

import (
	"context"
	"fmt"

	"github.com/formar-para-liderar/app-bolsas/internal/config"
	"github.com/formar-para-liderar/app-bolsas/internal/handlers"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/repository"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Backend is an opened store together with its health checks and the
// function that releases its connections
type Backend struct {
	Store  *repository.Store
	Checks map[string]handlers.DependencyCheck
	Close  func(ctx context.Context)
}

// OpenStore connects the configured storage backend
func OpenStore(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logging.Logger.Warn("using in-memory storage; data is lost on restart")
		return &Backend{
			Store:  repository.NewMemoryStore(),
			Checks: map[string]handlers.DependencyCheck{},
			Close:  func(context.Context) {},
		}, nil

	case config.StorageMongo:
		if err := config.InitMongoDB(ctx); err != nil {
			return nil, err
		}
		if err := config.InitRedis(ctx); err != nil {
			config.CloseMongoDB(ctx)
			return nil, err
		}

		store := repository.NewMongoStore(config.MongoDB, repository.Collections{
			Applications: cfg.ApplicationsCollection,
			Profiles:     cfg.ProfilesCollection,
			Accounts:     cfg.AccountsCollection,
			UserRoles:    cfg.UserRolesCollection,
			AuditLogs:    cfg.AuditLogsCollection,
		}, repository.NewRedisSessionStore(config.Redis), repository.NewRedisDraftStore(config.Redis))

		return &Backend{
			Store: store,
			Checks: map[string]handlers.DependencyCheck{
				"mongodb": func(ctx context.Context) error {
					return config.MongoDB.Client().Ping(ctx, readpref.Primary())
				},
				"redis": func(ctx context.Context) error {
					return config.Redis.Ping(ctx).Err()
				},
			},
			Close: func(ctx context.Context) {
				if err := config.Redis.Close(); err != nil {
					logging.Logger.Error("failed to close Redis", zap.Error(err))
				}
				config.CloseMongoDB(ctx)
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
