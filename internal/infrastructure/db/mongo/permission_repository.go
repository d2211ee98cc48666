package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userhub/identity-system/internal/core/domain"
)

const permissionsCollection = "permissions"

type PermissionRepository struct {
	coll *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *PermissionRepository {
	return &PermissionRepository{coll: db.Collection(permissionsCollection)}
}

type mongoPermission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	IsActive  bool               `bson:"is_active"`
	IsDeleted bool               `bson:"is_deleted"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mp mongoPermission) toDomain() *domain.Permission {
	return &domain.Permission{
		ID:        mp.ID.Hex(),
		Name:      mp.Name,
		IsActive:  mp.IsActive,
		IsDeleted: mp.IsDeleted,
		CreatedAt: unixToTime(mp.CreatedAt),
		UpdatedAt: unixToTime(mp.UpdatedAt),
	}
}

func (r *PermissionRepository) Create(ctx context.Context, permission *domain.Permission) (*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoPermission{
		Name:      permission.Name,
		IsActive:  permission.IsActive,
		IsDeleted: permission.IsDeleted,
		CreatedAt: permission.CreatedAt.Unix(),
		UpdatedAt: permission.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPermissionExists
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}

	created := *permission
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *PermissionRepository) FindByID(ctx context.Context, id string) (*domain.Permission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPermissionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPermission
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return mp.toDomain(), nil
}

// FindByIDs resolves permission references with a single $in query.
// Malformed and unknown IDs are dropped from the result, matching the
// directory contract for dangling references.
func (r *PermissionRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	defer cur.Close(ctx)

	var perms []*domain.Permission
	for cur.Next(ctx) {
		var mp mongoPermission
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode permission: %w", err)
		}
		perms = append(perms, mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	return perms, nil
}

func (r *PermissionRepository) Update(ctx context.Context, permission *domain.Permission) (*domain.Permission, error) {
	oid, err := primitive.ObjectIDFromHex(permission.ID)
	if err != nil {
		return nil, domain.ErrPermissionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"name":       permission.Name,
		"is_active":  permission.IsActive,
		"updated_at": permission.UpdatedAt.Unix(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPermissionExists
		}
		return nil, fmt.Errorf("update permission: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPermissionNotFound
	}
	return permission, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPermissionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

func (r *PermissionRepository) List(ctx context.Context) ([]*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"is_deleted": false})
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer cur.Close(ctx)

	var perms []*domain.Permission
	for cur.Next(ctx) {
		var mp mongoPermission
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode permission: %w", err)
		}
		perms = append(perms, mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return perms, nil
}

// EnsureIndexes creates the unique permission-name index.
func (r *PermissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
