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

// SessionRepository defines the interface for session-related database operations.
type SessionRepository interface {
	// GetSession returns the unexpired session with id.
	GetSession(ctx context.Context, id string) (*model.Session, error)

	// SaveSession inserts or overwrites the session's state and expiry.
	SaveSession(ctx context.Context, session *model.Session) error

	// DeleteSession removes the session. Deleting a missing session is not an error.
	DeleteSession(ctx context.Context, id string) error
}

const sessionCollection = "sessions"

type sessionMongoRepository struct {
	db *mongo.Database
}

func NewSessionMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) SessionRepository {
	collection := db.Collection(sessionCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session indexes")
	}

	return &sessionMongoRepository{db: db}
}

func (r *sessionMongoRepository) GetSession(ctx context.Context, id string) (*model.Session, error) {
	// The TTL monitor runs about once a minute, so expiry is checked here too.
	result := r.db.Collection(sessionCollection).FindOne(ctx, bson.M{
		"_id":        id,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := result.Decode(&session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionMongoRepository) SaveSession(ctx context.Context, session *model.Session) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"state":      session.State,
			"email":      session.Email,
			"expires_at": session.ExpiresAt,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	result := r.db.Collection(sessionCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": session.ID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	var saved model.Session
	if err := result.Decode(&saved); err != nil {
		return err
	}
	session.CreatedAt = saved.CreatedAt
	session.UpdatedAt = saved.UpdatedAt

	return nil
}

func (r *sessionMongoRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.Collection(sessionCollection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}
