package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names
const (
	CollectionUsers      = "users"
	CollectionProjects   = "projects"
	CollectionTasks      = "tasks"
	CollectionQueries    = "queries"
	CollectionActivities = "activities"
)

const defaultMongoDBName = "togglenest"

// MongoDB wraps the MongoDB client and database
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoDB connects with connection pooling and verifies the primary is
// reachable.
func NewMongoDB(ctx context.Context, uri string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoDB{
		client:   client,
		database: client.Database(MongoDBName(uri)),
	}, nil
}

// MongoDBName extracts the database name from the URI path, falling back to
// the default.
func MongoDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDBName
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDBName
}

// Initialize creates indexes for all collections
func (m *MongoDB) Initialize(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "projectId", Value: 1}}},
		},
		CollectionProjects: {
			{Keys: bson.D{{Key: "projectId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "adminEmail", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
		CollectionTasks: {
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionQueries: {
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CollectionActivities: {
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := m.database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// Collection returns a collection handle
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// Ping checks if the database connection is alive
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close closes the MongoDB connection
func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
