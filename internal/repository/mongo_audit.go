package repository

import (
	"context"
	"fmt"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuditRepo writes audit entries with an unordered bulk insert
type MongoAuditRepo struct {
	coll *mongo.Collection
}

func NewMongoAuditRepo(coll *mongo.Collection) *MongoAuditRepo {
	return &MongoAuditRepo{coll: coll}
}

func (r *MongoAuditRepo) InsertMany(ctx context.Context, logs []models.AuditLog) (err error) {
	if len(logs) == 0 {
		return nil
	}
	ctx, done := trackOperation(ctx, "insert_audit_logs", r.coll)
	defer func() { done(err) }()

	operations := make([]mongo.WriteModel, 0, len(logs))
	for i := range logs {
		operations = append(operations, mongo.NewInsertOneModel().SetDocument(logs[i]))
	}

	if _, err = r.coll.BulkWrite(ctx, operations, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert audit logs: %w", err)
	}
	return nil
}
