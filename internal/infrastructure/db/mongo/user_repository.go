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
	"github.com/userhub/identity-system/internal/core/ports"
)

const usersCollection = "users"

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	FirstName            string             `bson:"first_name"`
	LastName             string             `bson:"last_name"`
	UserName             string             `bson:"username"`
	Email                string             `bson:"email"`
	PasswordHash         string             `bson:"password_hash"`
	Role                 string             `bson:"role"`
	IsVerified           bool               `bson:"is_verified"`
	ResetToken           string             `bson:"reset_token,omitempty"`
	ResetTokenExpiration int64              `bson:"reset_token_expiration,omitempty"`
	IsActive             bool               `bson:"is_active"`
	IsDeleted            bool               `bson:"is_deleted"`
	CreatedAt            int64              `bson:"created_at"`
	UpdatedAt            int64              `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	mu := mongoUser{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		UserName:     u.UserName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsVerified:   u.IsVerified,
		ResetToken:   u.ResetToken,
		IsActive:     u.IsActive,
		IsDeleted:    u.IsDeleted,
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
	if !u.ResetTokenExpiration.IsZero() {
		mu.ResetTokenExpiration = u.ResetTokenExpiration.Unix()
	}
	return mu
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                   mu.ID.Hex(),
		FirstName:            mu.FirstName,
		LastName:             mu.LastName,
		UserName:             mu.UserName,
		Email:                mu.Email,
		PasswordHash:         mu.PasswordHash,
		Role:                 mu.Role,
		IsVerified:           mu.IsVerified,
		ResetToken:           mu.ResetToken,
		ResetTokenExpiration: unixToTime(mu.ResetTokenExpiration),
		IsActive:             mu.IsActive,
		IsDeleted:            mu.IsDeleted,
		CreatedAt:            unixToTime(mu.CreatedAt),
		UpdatedAt:            unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoUser(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"reset_token": token})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"username":      user.UserName,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
		"is_verified":   user.IsVerified,
		"is_active":     user.IsActive,
		"updated_at":    user.UpdatedAt.Unix(),
	}
	unset := bson.M{}
	if user.ResetToken != "" {
		set["reset_token"] = user.ResetToken
		// Verification tokens carry no expiry; only reset tokens do.
		if user.ResetTokenExpiration.IsZero() {
			unset["reset_token_expiration"] = ""
		} else {
			set["reset_token_expiration"] = user.ResetTokenExpiration.Unix()
		}
	} else {
		unset["reset_token"] = ""
		unset["reset_token_expiration"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"is_deleted": true,
		"is_active":  false,
		"updated_at": at.Unix(),
	}})
	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	switch {
	case filter.Search != "":
		query["first_name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	case filter.Role != "":
		query["role"] = filter.Role
	default:
		query["is_active"] = true
		query["is_deleted"] = false
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	sortValue := -1
	if filter.SortAsc {
		sortValue = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: filter.SortBy, Value: sortValue}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// EnsureIndexes creates the unique email index and the lookup indexes used
// by the auth flows.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "reset_token", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
