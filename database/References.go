package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"threadline/models"
)

func (s *Store) AddMember(ctx context.Context, rel models.Relation, owner, member primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.updateOne(ctx, s.collection(rel.Owner()), owner, addToSetUpdate(rel, member))
}

func (s *Store) RemoveMember(ctx context.Context, rel models.Relation, owner, member primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.updateOne(ctx, s.collection(rel.Owner()), owner, pullUpdate(rel, member))
}

// PurgeMembers issues one updateMany per owner collection.
func (s *Store) PurgeMembers(ctx context.Context, pulls ...models.Pull) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	order, groups := groupPulls(pulls)
	var modified int64
	for _, owner := range order {
		filter, update, ok := purgeQuery(groups[owner])
		if !ok {
			continue
		}
		result, err := s.collection(owner).UpdateMany(ctx, filter, update)
		if err != nil {
			return modified, fmt.Errorf("purge %s references: %w", owner, err)
		}
		modified += result.ModifiedCount
	}
	return modified, nil
}

// updateOne applies update to the document with id and reports
// mongo.ErrNoDocuments when no document matched.
func (s *Store) updateOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, update bson.M) error {
	result, err := coll.UpdateOne(ctx, byID(id), update)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", coll.Name(), id.Hex(), err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
