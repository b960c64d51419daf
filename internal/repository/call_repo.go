package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourorg/chatapp/internal/models"
)

type mongoCallRepo struct {
	col *mongo.Collection
}

func NewCallRepo(db *mongo.Database) CallRepository {
	return &mongoCallRepo{col: db.Collection(colCalls)}
}

func (r *mongoCallRepo) Insert(ctx context.Context, c *models.Call) error {
	c.ID = primitive.NewObjectID().Hex()
	c.CreatedAt = time.Now().UTC()
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *mongoCallRepo) ListForUser(ctx context.Context, userID string, limit int64) ([]*models.Call, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"caller_id": userID},
		bson.M{"receiver_id": userID},
	}}
	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Call
	for cur.Next(ctx) {
		var c models.Call
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}
