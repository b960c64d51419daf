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

type mongoCommunityRepo struct {
	col *mongo.Collection
}

func NewCommunityRepo(db *mongo.Database) CommunityRepository {
	return &mongoCommunityRepo{col: db.Collection(colCommunities)}
}

func (r *mongoCommunityRepo) Create(ctx context.Context, cm *models.Community) error {
	now := time.Now().UTC()
	cm.ID = primitive.NewObjectID().Hex()
	cm.CreatedAt = now
	cm.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, cm)
	return err
}

func (r *mongoCommunityRepo) FindByID(ctx context.Context, id string) (*models.Community, error) {
	var cm models.Community
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cm)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func (r *mongoCommunityRepo) ListForUser(ctx context.Context, userID string) ([]*models.Community, error) {
	cur, err := r.col.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Community
	for cur.Next(ctx) {
		var cm models.Community
		if err := cur.Decode(&cm); err != nil {
			return nil, err
		}
		out = append(out, &cm)
	}
	return out, cur.Err()
}

func (r *mongoCommunityRepo) AddMember(ctx context.Context, communityID, userID string) error {
	return r.update(ctx, communityID, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *mongoCommunityRepo) RemoveMember(ctx context.Context, communityID, userID string) error {
	return r.update(ctx, communityID, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *mongoCommunityRepo) AddGroup(ctx context.Context, communityID, chatID string) error {
	return r.update(ctx, communityID, bson.M{
		"$addToSet": bson.M{"group_ids": chatID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *mongoCommunityRepo) RemoveGroup(ctx context.Context, communityID, chatID string) error {
	return r.update(ctx, communityID, bson.M{
		"$pull": bson.M{"group_ids": chatID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *mongoCommunityRepo) update(ctx context.Context, id string, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
