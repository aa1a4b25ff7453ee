package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoDB database handle
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// InitMongoDB connects to MongoDB, pings it and ensures indexes
func InitMongoDB(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}

	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := EnsureIndexes(ctx, MongoDB, AppConfig); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
	return nil
}

// CloseMongoDB disconnects the MongoDB client
func CloseMongoDB(ctx context.Context) {
	if MongoDB == nil {
		return
	}
	if err := MongoDB.Client().Disconnect(ctx); err != nil {
		logging.Logger.Error("failed to disconnect MongoDB", zap.Error(err))
	}
}

// InitRedis connects to Redis and wraps the client with tracing
func InitRedis(ctx context.Context) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping Redis at %s: %w", AppConfig.RedisURI, err)
	}

	logging.Logger.Info("connected to Redis", zap.String("uri", AppConfig.RedisURI))
	return nil
}

// maskMongoURI masks credentials in a MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at < 0 {
		return uri
	}
	scheme := "mongodb://"
	if strings.HasPrefix(uri, "mongodb+srv://") {
		scheme = "mongodb+srv://"
	}
	return scheme + "****:****@" + uri[at+1:]
}

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

func requiredIndexes(cfg *Config) []indexSpec {
	return []indexSpec{
		{cfg.UserRolesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "role", Value: 1}},
			Options: options.Index().SetName("user_id_1_role_1").SetUnique(true),
		}},
		{cfg.ApplicationsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_-1"),
		}},
		{cfg.ApplicationsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_id_1_created_at_-1"),
		}},
		{cfg.AccountsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_1").SetUnique(true),
		}},
		{cfg.ProfilesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_-1"),
		}},
		{cfg.AuditLogsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "resource", Value: 1}, {Key: "resource_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("resource_1_resource_id_1_timestamp_-1"),
		}},
	}
}

// EnsureIndexes creates the indexes the repositories rely on when missing
func EnsureIndexes(ctx context.Context, db *mongo.Database, cfg *Config) error {
	logger := logging.Logger.With(zap.String("component", "database"))
	logger.Info("ensuring required indexes exist")

	for _, spec := range requiredIndexes(cfg) {
		if err := ensureIndex(ctx, db.Collection(spec.collection), spec.model, logger); err != nil {
			return err
		}
	}

	logger.Info("all required indexes verified")
	return nil
}

func ensureIndex(ctx context.Context, collection *mongo.Collection, model mongo.IndexModel, logger *logging.SafeLogger) error {
	name := *model.Options.Name

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes on %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if existing, ok := index["name"].(string); ok && existing == name {
			logger.Debug("index already exists",
				zap.String("collection", collection.Name()),
				zap.String("index", name))
			return nil
		}
	}

	if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
		// another instance may have created it concurrently
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("create index %s on %s: %w", name, collection.Name(), err)
	}

	logger.Info("created index",
		zap.String("collection", collection.Name()),
		zap.String("index", name))
	return nil
}
