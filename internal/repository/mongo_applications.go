package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"github.com/formar-para-liderar/app-bolsas/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names the Mongo collections used by the store
type Collections struct {
	Applications string
	Profiles     string
	Accounts     string
	UserRoles    string
	AuditLogs    string
}

// NewMongoStore builds a Store on Mongo for durable records and on the
// given session and draft stores for expiring ones
func NewMongoStore(db *mongo.Database, names Collections, sessions SessionStore, drafts DraftStore) *Store {
	return &Store{
		Applications: NewMongoApplicationRepo(db.Collection(names.Applications)),
		Roles:        NewMongoRoleRepo(db.Collection(names.UserRoles)),
		Profiles:     NewMongoProfileRepo(db.Collection(names.Profiles)),
		Accounts:     NewMongoAccountRepo(db.Collection(names.Accounts)),
		Sessions:     sessions,
		Drafts:       drafts,
		Audit:        NewMongoAuditRepo(db.Collection(names.AuditLogs)),
	}
}

// trackOperation opens a span for a collection operation and returns a
// func recording its outcome
func trackOperation(ctx context.Context, operation string, coll *mongo.Collection) (context.Context, func(error)) {
	ctx, span, done := utils.TraceDatabaseOperation(ctx, operation, coll.Name())
	return ctx, func(err error) {
		status := "success"
		if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrDuplicate) {
			status = "error"
			utils.RecordErrorInSpan(span, err, nil)
		}
		observability.DatabaseOperations.WithLabelValues(operation, status).Inc()
		done()
	}
}

// MongoApplicationRepo stores applications in a Mongo collection
type MongoApplicationRepo struct {
	coll *mongo.Collection
}

func NewMongoApplicationRepo(coll *mongo.Collection) *MongoApplicationRepo {
	return &MongoApplicationRepo{coll: coll}
}

func (r *MongoApplicationRepo) Insert(ctx context.Context, app *models.Application) (err error) {
	ctx, done := trackOperation(ctx, "insert_application", r.coll)
	defer func() { done(err) }()

	if _, err = r.coll.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *MongoApplicationRepo) GetByID(ctx context.Context, id string) (app *models.Application, err error) {
	ctx, done := trackOperation(ctx, "get_application", r.coll)
	defer func() { done(err) }()

	var out models.Application
	if err = r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return &out, nil
}

func (r *MongoApplicationRepo) List(ctx context.Context) ([]models.Application, error) {
	return r.find(ctx, "list_applications", bson.M{})
}

func (r *MongoApplicationRepo) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	return r.find(ctx, "list_user_applications", bson.M{"user_id": userID})
}

func (r *MongoApplicationRepo) find(ctx context.Context, operation string, filter bson.M) (apps []models.Application, err error) {
	ctx, done := trackOperation(ctx, operation, r.coll)
	defer func() { done(err) }()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	defer cursor.Close(ctx)

	apps = []models.Application{}
	if err = cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

func (r *MongoApplicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, now time.Time) error {
	return r.update(ctx, "update_application_status", id, bson.M{
		"status":     status,
		"updated_at": now,
	})
}

func (r *MongoApplicationRepo) UpdateReview(ctx context.Context, id string, status models.ApplicationStatus, notes *string, now time.Time) error {
	return r.update(ctx, "update_application_review", id, bson.M{
		"status":      status,
		"admin_notes": notes,
		"updated_at":  now,
	})
}

// update applies a single $set, so status and notes succeed or fail together
func (r *MongoApplicationRepo) update(ctx context.Context, operation, id string, set bson.M) (err error) {
	ctx, done := trackOperation(ctx, operation, r.coll)
	defer func() { done(err) }()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
