package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
)

type mongoMessageRepo struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepository {
	return &mongoMessageRepo{col: db.Collection(colMessages)}
}

func (r *mongoMessageRepo) Insert(ctx context.Context, m *models.Message) error {
	m.ID = primitive.NewObjectID().Hex()
	m.CreatedAt = time.Now().UTC()
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *mongoMessageRepo) FindByID(ctx context.Context, id string) (*models.Message, error) {
	var m models.Message
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByChat returns up to limit messages before the given time, in
// chronological order.
func (r *mongoMessageRepo) ListByChat(ctx context.Context, chatID string, limit int64, before time.Time) ([]*models.Message, error) {
	filter := bson.M{"chat_id": chatID}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Message
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *mongoMessageRepo) LatestForChat(ctx context.Context, chatID string) (*models.Message, error) {
	var m models.Message
	err := r.col.FindOne(ctx, bson.M{"chat_id": chatID},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mongoMessageRepo) MarkRead(ctx context.Context, chatID string, messageIDs []string, userID string) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": messageIDs}, "chat_id": chatID},
		bson.M{"$addToSet": bson.M{"read_by": userID}})
	return err
}

func (r *mongoMessageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
