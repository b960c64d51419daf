package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
)

type mongoChatRepo struct {
	col *mongo.Collection
}

func NewChatRepo(db *mongo.Database) ChatRepository {
	return &mongoChatRepo{col: db.Collection(colChats)}
}

func (r *mongoChatRepo) Create(ctx context.Context, c *models.Chat) error {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID().Hex()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, c)
	return err
}

func (r *mongoChatRepo) FindByID(ctx context.Context, id string) (*models.Chat, error) {
	var c models.Chat
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoChatRepo) FindDirect(ctx context.Context, pairKey string) (*models.Chat, error) {
	var c models.Chat
	err := r.col.FindOne(ctx, bson.M{"pair_key": pairKey}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *mongoChatRepo) ListForUser(ctx context.Context, userID string) ([]*models.Chat, error) {
	cur, err := r.col.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Chat
	for cur.Next(ctx) {
		var c models.Chat
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (r *mongoChatRepo) Rename(ctx context.Context, chatID, name string) error {
	return r.update(ctx, chatID, bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC()}})
}

// AddMember and RemoveMember use $addToSet/$pull so concurrent mutations of
// the same chat never lose updates; the store serializes per document.
func (r *mongoChatRepo) AddMember(ctx context.Context, chatID, userID string) error {
	return r.update(ctx, chatID, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *mongoChatRepo) RemoveMember(ctx context.Context, chatID, userID string) error {
	return r.update(ctx, chatID, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *mongoChatRepo) SetLatestMessage(ctx context.Context, chatID string, m *models.Message) error {
	return r.update(ctx, chatID, bson.M{
		"$set": bson.M{"latest_message": m, "updated_at": time.Now().UTC()},
	})
}

func (r *mongoChatRepo) Delete(ctx context.Context, chatID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": chatID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *mongoChatRepo) update(ctx context.Context, chatID string, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": chatID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
