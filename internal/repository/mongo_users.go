package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRoleRepo stores role assignments. A unique (user_id, role) index
// enforces one assignment per pair.
type MongoRoleRepo struct {
	coll *mongo.Collection
}

func NewMongoRoleRepo(coll *mongo.Collection) *MongoRoleRepo {
	return &MongoRoleRepo{coll: coll}
}

func (r *MongoRoleRepo) ListByUser(ctx context.Context, userID string) ([]models.RoleAssignment, error) {
	return r.find(ctx, "list_user_roles", bson.M{"user_id": userID})
}

func (r *MongoRoleRepo) ListAll(ctx context.Context) ([]models.RoleAssignment, error) {
	return r.find(ctx, "list_roles", bson.M{})
}

func (r *MongoRoleRepo) find(ctx context.Context, operation string, filter bson.M) (roles []models.RoleAssignment, err error) {
	ctx, done := trackOperation(ctx, operation, r.coll)
	defer func() { done(err) }()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cursor.Close(ctx)

	roles = []models.RoleAssignment{}
	if err = cursor.All(ctx, &roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	return roles, nil
}

func (r *MongoRoleRepo) Insert(ctx context.Context, assignment *models.RoleAssignment) (err error) {
	ctx, done := trackOperation(ctx, "insert_role", r.coll)
	defer func() { done(err) }()

	if _, err = r.coll.InsertOne(ctx, assignment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (r *MongoRoleRepo) Delete(ctx context.Context, userID string, role models.Role) (err error) {
	ctx, done := trackOperation(ctx, "delete_role", r.coll)
	defer func() { done(err) }()

	res, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID, "role": role})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoProfileRepo stores profiles keyed by account id
type MongoProfileRepo struct {
	coll *mongo.Collection
}

func NewMongoProfileRepo(coll *mongo.Collection) *MongoProfileRepo {
	return &MongoProfileRepo{coll: coll}
}

func (r *MongoProfileRepo) Create(ctx context.Context, profile *models.Profile) (err error) {
	ctx, done := trackOperation(ctx, "insert_profile", r.coll)
	defer func() { done(err) }()

	if _, err = r.coll.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *MongoProfileRepo) Get(ctx context.Context, id string) (profile *models.Profile, err error) {
	ctx, done := trackOperation(ctx, "get_profile", r.coll)
	defer func() { done(err) }()

	var out models.Profile
	if err = r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &out, nil
}

func (r *MongoProfileRepo) List(ctx context.Context) (profiles []models.Profile, err error) {
	ctx, done := trackOperation(ctx, "list_profiles", r.coll)
	defer func() { done(err) }()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	profiles = []models.Profile{}
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	return profiles, nil
}

func (r *MongoProfileRepo) UpdateFullName(ctx context.Context, id string, fullName *string, now time.Time) (err error) {
	ctx, done := trackOperation(ctx, "update_profile", r.coll)
	defer func() { done(err) }()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"full_name":  fullName,
		"updated_at": now,
	}})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoAccountRepo stores credentials. Emails are stored normalized under
// a unique index.
type MongoAccountRepo struct {
	coll *mongo.Collection
}

func NewMongoAccountRepo(coll *mongo.Collection) *MongoAccountRepo {
	return &MongoAccountRepo{coll: coll}
}

func (r *MongoAccountRepo) Create(ctx context.Context, account *models.Account) (err error) {
	ctx, done := trackOperation(ctx, "insert_account", r.coll)
	defer func() { done(err) }()

	doc := *account
	doc.Email = models.NormalizeEmail(doc.Email)
	if _, err = r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *MongoAccountRepo) FindByEmail(ctx context.Context, email string) (account *models.Account, err error) {
	ctx, done := trackOperation(ctx, "find_account", r.coll)
	defer func() { done(err) }()

	var out models.Account
	if err = r.coll.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &out, nil
}

func (r *MongoAccountRepo) Delete(ctx context.Context, id string) (err error) {
	ctx, done := trackOperation(ctx, "delete_account", r.coll)
	defer func() { done(err) }()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
