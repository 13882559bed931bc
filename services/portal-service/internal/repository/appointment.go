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

// AppointmentRepository defines the interface for appointment-related
// database operations. Every read and write after creation is scoped to the
// owner's email; a record owned by someone else is reported as ErrNotFound.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, appointment *model.Appointment) (*model.Appointment, error)
	GetOwnedAppointment(ctx context.Context, id, ownerEmail string) (*model.Appointment, error)
	ListAppointmentsByOwner(ctx context.Context, ownerEmail string) ([]*model.Appointment, error)

	// UpdateOwnedAppointmentStatus sets status on the appointment matching
	// id and owner whose current status may transition to it, in one step.
	UpdateOwnedAppointmentStatus(
		ctx context.Context,
		id, ownerEmail string,
		status model.AppointmentStatus,
	) (*model.Appointment, error)
}

const appointmentCollection = "appointments"

type appointmentMongoRepository struct {
	db *mongo.Database
}

func NewAppointmentMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) AppointmentRepository {
	collection := db.Collection(appointmentCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_email", Value: 1}, {Key: "created_at", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create appointment indexes")
	}

	return &appointmentMongoRepository{db: db}
}

func (r *appointmentMongoRepository) CreateAppointment(
	ctx context.Context,
	appointment *model.Appointment,
) (*model.Appointment, error) {
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	result, err := r.db.Collection(appointmentCollection).InsertOne(ctx, appointment)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		appointment.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return appointment, nil
}

func (r *appointmentMongoRepository) GetOwnedAppointment(
	ctx context.Context,
	id, ownerEmail string,
) (*model.Appointment, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(appointmentCollection).FindOne(ctx, bson.M{
		"_id":        objectID,
		"user_email": ownerEmail,
	})

	return decodeAppointment(result)
}

func (r *appointmentMongoRepository) ListAppointmentsByOwner(
	ctx context.Context,
	ownerEmail string,
) ([]*model.Appointment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.db.Collection(appointmentCollection).Find(ctx, bson.M{"user_email": ownerEmail}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := make([]*model.Appointment, 0)
	for cursor.Next(ctx) {
		var appointment model.Appointment
		if err := cursor.Decode(&appointment); err != nil {
			return nil, err
		}
		appointments = append(appointments, &appointment)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return appointments, nil
}

func (r *appointmentMongoRepository) UpdateOwnedAppointmentStatus(
	ctx context.Context,
	id, ownerEmail string,
	status model.AppointmentStatus,
) (*model.Appointment, error) {
	sources := model.TransitionSources(status)
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no status may move to %s", model.ErrInvalidTransition, status)
	}

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	filter := bson.M{
		"_id":        objectID,
		"user_email": ownerEmail,
		"status":     bson.M{"$in": sources},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}

	result := r.db.Collection(appointmentCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	return decodeAppointment(result)
}

func decodeAppointment(result *mongo.SingleResult) (*model.Appointment, error) {
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var appointment model.Appointment
	if err := result.Decode(&appointment); err != nil {
		return nil, err
	}

	return &appointment, nil
}
