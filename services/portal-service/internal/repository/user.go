package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// CreateUser inserts a new user. Returns ErrDuplicate if the email is taken.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)

	// GetUserByEmail returns the user with exactly this email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// VerifyUser marks the user verified and clears its code, but only if
	// the user is unverified and code equals the stored code. The check and
	// the update happen in one step. Returns ErrNotFound when nothing matched.
	VerifyUser(ctx context.Context, email, code string) (*model.User, error)

	// SetVerificationCode replaces the code of an unverified user.
	SetVerificationCode(ctx context.Context, email, code string) (*model.User, error)
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email})

	return decodeUser(result)
}

func (r *userMongoRepository) VerifyUser(ctx context.Context, email, code string) (*model.User, error) {
	if code == "" {
		return nil, ErrNotFound
	}

	filter := bson.M{
		"email":             email,
		"verified":          false,
		"verification_code": code,
	}
	update := bson.M{
		"$set": bson.M{
			"verified":   true,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{"verification_code": ""},
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	return decodeUser(result)
}

func (r *userMongoRepository) SetVerificationCode(ctx context.Context, email, code string) (*model.User, error) {
	filter := bson.M{
		"email":    email,
		"verified": false,
	}
	update := bson.M{
		"$set": bson.M{
			"verification_code": code,
			"updated_at":        time.Now(),
		},
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	return decodeUser(result)
}

func decodeUser(result *mongo.SingleResult) (*model.User, error) {
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
