package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/repository"
)

const workspacesCollection = "workspaces"

// WorkspaceRepository stores one document per user in MongoDB.
type WorkspaceRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *zap.Logger
}

var _ repository.WorkspaceStore = (*WorkspaceRepository)(nil)

// NewWorkspaceRepository connects to MongoDB and verifies the connection.
func NewWorkspaceRepository(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*WorkspaceRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(cfg.URI).SetRegistry(NewRegistry())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &WorkspaceRepository{
		client: client,
		coll:   client.Database(cfg.DBName).Collection(workspacesCollection),
		logger: logger,
	}, nil
}

// Load fetches the user's workspace document.
func (r *WorkspaceRepository) Load(ctx context.Context, userID string) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&ws)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewWorkspace(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace %s: %w", userID, err)
	}
	ws.Normalize()
	return &ws, nil
}

// Save inserts the first version of a document and replaces later ones
// conditionally on their version.
func (r *WorkspaceRepository) Save(ctx context.Context, ws *models.Workspace, expectedVersion int64) error {
	doc := *ws
	doc.Version = expectedVersion + 1

	if expectedVersion == 0 {
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return repository.ErrVersionConflict
			}
			return fmt.Errorf("failed to insert workspace %s: %w", ws.UserID, err)
		}
		ws.Version = doc.Version
		return nil
	}

	filter := bson.D{{Key: "_id", Value: ws.UserID}, {Key: "version", Value: expectedVersion}}
	res, err := r.coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("failed to replace workspace %s: %w", ws.UserID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrVersionConflict
	}

	ws.Version = doc.Version
	r.logger.Debug("workspace saved", zap.String("user_id", ws.UserID), zap.Int64("version", doc.Version))
	return nil
}

type changeEvent struct {
	FullDocument *models.Workspace `bson:"fullDocument"`
}

// Subscribe opens a change stream on the user's document. It requires a
// replica set or sharded cluster.
func (r *WorkspaceRepository) Subscribe(ctx context.Context, userID string) (<-chan *models.Workspace, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: userID}}}},
	}
	stream, err := r.coll.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, fmt.Errorf("failed to watch workspace %s: %w", userID, err)
	}

	out := make(chan *models.Workspace, 1)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var ev changeEvent
			if err := stream.Decode(&ev); err != nil {
				r.logger.Warn("skip undecodable change event", zap.String("user_id", userID), zap.Error(err))
				continue
			}
			if ev.FullDocument == nil {
				continue
			}
			ev.FullDocument.Normalize()
			select {
			case out <- ev.FullDocument:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			r.logger.Error("workspace change stream stopped", zap.String("user_id", userID), zap.Error(err))
		}
	}()

	return out, nil
}

// ListUserIDs returns the ids of every stored workspace.
func (r *WorkspaceRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Close closes the MongoDB connection.
func (r *WorkspaceRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
