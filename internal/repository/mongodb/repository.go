package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/csd4487/vedema/internal/domain/models"
)

// Repository defines the user snapshot reads and report writes backed by MongoDB.
type Repository interface {
	LoadUser(ctx context.Context, email string) (models.User, error)
	ListUserEmails(ctx context.Context) ([]string, error)
	SaveSeasonReport(ctx context.Context, report models.SeasonReport) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client      *mongo.Client
	dbName      string
	usersColl   string
	reportsColl string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri, dbName, usersColl, reportsColl string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:      client,
		dbName:      dbName,
		usersColl:   usersColl,
		reportsColl: reportsColl,
	}, nil
}

// LoadUser fetches one user document with all nested fields and ledgers.
func (r *MongoDBRepository) LoadUser(ctx context.Context, email string) (models.User, error) {
	var user models.User

	err := r.users().FindOne(ctx, userFilter(email)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ListUserEmails returns the email of every stored user.
func (r *MongoDBRepository) ListUserEmails(ctx context.Context) ([]string, error) {
	values, err := r.users().Distinct(ctx, "email", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list user emails: %w", err)
	}
	return emailsFromDistinct(values), nil
}

// SaveSeasonReport stores a season digest.
func (r *MongoDBRepository) SaveSeasonReport(ctx context.Context, report models.SeasonReport) error {
	collection := r.client.Database(r.dbName).Collection(r.reportsColl)
	_, err := collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to insert season report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) users() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.usersColl)
}

func userFilter(email string) bson.D {
	return bson.D{{Key: "email", Value: email}}
}

func emailsFromDistinct(values []interface{}) []string {
	emails := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			emails = append(emails, s)
		}
	}
	return emails
}
