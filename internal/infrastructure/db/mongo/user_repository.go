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

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
)

const usersCollection = "users"

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// mongoUser keeps the role field as whatever representation it arrived with:
// legacy records carry numeric codes, newer ones carry string tags.
type mongoUser struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	FullName      string             `bson:"full_name"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash,omitempty"`
	Role          any                `bson:"role"`
	Avatar        string             `bson:"avatar,omitempty"`
	WalletAddress string             `bson:"wallet_address,omitempty"`
	IsVerified    bool               `bson:"is_verified"`
	CenterName    string             `bson:"center_name,omitempty"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		FullName:      user.FullName,
		Email:         user.Email,
		PasswordHash:  user.PasswordHash,
		Role:          user.Role.Raw(),
		Avatar:        user.Avatar,
		WalletAddress: user.WalletAddress,
		IsVerified:    user.IsVerified,
		CenterName:    user.CenterName,
		CreatedAt:     user.CreatedAt.Unix(),
		UpdatedAt:     user.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return r.FindByEmail(ctx, user.Email)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// List pages through users. Role filtering matches both representations of
// the requested canonical role so legacy numeric records are not missed.
func (r *UserRepository) List(ctx context.Context, role domain.Role, page, size int) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if role != "" {
		values := []any{string(role)}
		if code, ok := roleCode(role); ok {
			values = append(values, code)
		}
		filter["role"] = bson.M{"$in": values}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))

	cur, err := r.coll.Find(ctx, filter, opts)
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

// EnsureIndexes creates the unique email index on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "wallet_address", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:            mu.ID.Hex(),
		FullName:      mu.FullName,
		Email:         mu.Email,
		PasswordHash:  mu.PasswordHash,
		Role:          rawRoleFromBSON(mu.Role),
		Avatar:        mu.Avatar,
		WalletAddress: mu.WalletAddress,
		IsVerified:    mu.IsVerified,
		CenterName:    mu.CenterName,
		CreatedAt:     unixToTime(mu.CreatedAt),
		UpdatedAt:     unixToTime(mu.UpdatedAt),
	}
}

// rawRoleFromBSON converts the stored role value back into its raw form.
// The driver decodes numbers as int32/int64.
func rawRoleFromBSON(v any) domain.RawRole {
	switch t := v.(type) {
	case string:
		return domain.RoleFromString(t)
	case int32:
		return domain.RoleFromCode(int(t))
	case int64:
		return domain.RoleFromCode(int(t))
	case float64:
		return domain.RoleFromCode(int(t))
	}
	return domain.RawRole{}
}

// roleCode returns the legacy numeric code for a canonical role, if any.
func roleCode(role domain.Role) (int, bool) {
	for code := 1; code <= 4; code++ {
		if got, ok := domain.RoleFromCode(code).Normalize(); ok && got == role {
			return code, true
		}
	}
	return 0, false
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
