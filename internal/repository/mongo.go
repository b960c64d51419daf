package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colUsers       = "users"
	colChats       = "chats"
	colMessages    = "messages"
	colCommunities = "communities"
	colCalls       = "calls"
)

// Connect opens the client and verifies the connection before use.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. Unique
// pair_key is what makes 1:1 chat access idempotent at the data layer.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(colUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phone_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(colChats).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "members", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(colMessages).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "chat_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(colCommunities).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "members", Value: 1}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(colCalls).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "caller_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
