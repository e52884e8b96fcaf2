package database

import (
	"context"
	"fmt"
	"time"

	"shopBackend/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func InitMongo(cfg *config.Config) (*mongo.Client, *mongo.Collection, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(5*time.Second).
		SetMaxPoolSize(20))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)

	// multikey index so tag lookups stay off a collection scan
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "tags", Value: 1}},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tags index: %w", err)
	}

	return client, coll, nil
}

func CloseMongo(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}

	return client.Disconnect(ctx)
}
