package history

import (
	"context"
	"fmt"
	"time"

	"github.com/vestafn/vesta/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var log = logger.NewLogger("vesta.orchestrator.history")

type Options struct {
	Host         string
	Port         int
	Username     string
	Password     string
	Database     string
	AuthDatabase string
}

// AttemptEntry is one recorded body execution within a logical invocation.
type AttemptEntry struct {
	CorrelationId string    `bson:"correlationId" json:"correlationId"`
	FunctionId    string    `bson:"functionId" json:"functionId"`
	Attempt       int       `bson:"attempt" json:"attempt"`
	Succeeded     bool      `bson:"succeeded" json:"succeeded"`
	Error         string    `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt     time.Time `bson:"startedAt" json:"startedAt"`
	CompletedAt   time.Time `bson:"completedAt" json:"completedAt"`
}

type HistoryClient interface {
	Close() error
	InsertAttempt(ctx context.Context, entry AttemptEntry) error
	GetAttempts(ctx context.Context, correlationId string) ([]AttemptEntry, error)
}

type historyClient struct {
	database string
	client   *mongo.Client
}

// NewHistoryClient creates a new invocation history client.
func NewHistoryClient(ctx context.Context, opts Options) (HistoryClient, error) {
	log.Infof("connecting to history database server: %s:%d", opts.Host, opts.Port)

	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d/%s", opts.Username, opts.Password, opts.Host, opts.Port, opts.AuthDatabase)
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	return &historyClient{
		database: opts.Database,
		client:   client,
	}, nil
}

// Close closes the database connection.
func (h *historyClient) Close() error {
	log.Infof("closing history database connection")

	if h.client == nil {
		return nil
	}
	return h.client.Disconnect(context.Background())
}

// InsertAttempt records the outcome of one attempt.
func (h *historyClient) InsertAttempt(ctx context.Context, entry AttemptEntry) error {
	collection := h.client.Database(h.database).Collection("attempts")
	_, err := collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to insert attempt entry: %w", err)
	}
	return nil
}

// GetAttempts returns the attempt entries of a logical invocation in order.
func (h *historyClient) GetAttempts(ctx context.Context, correlationId string) ([]AttemptEntry, error) {
	collection := h.client.Database(h.database).Collection("attempts")
	findOptions := options.Find().SetSort(bson.D{{Key: "attempt", Value: 1}})
	cursor, err := collection.Find(ctx, bson.D{{Key: "correlationId", Value: correlationId}}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	var entries []AttemptEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	return entries, nil
}
