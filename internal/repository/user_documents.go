package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userDocuments wraps a collection that holds at most one document per user,
// keyed by userId. Every write is a single-document update.
type userDocuments struct {
	col *mongo.Collection
}

func byUser(userID string) bson.M {
	return bson.M{"userId": userID}
}

// find decodes the user's document into out and reports whether it exists.
func (d userDocuments) find(ctx context.Context, userID string, out any) (bool, error) {
	err := d.col.FindOne(ctx, byUser(userID)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find %s document: %w", d.col.Name(), err)
	}
	return true, nil
}

// exists reports whether the user has a document in this collection.
func (d userDocuments) exists(ctx context.Context, userID string) (bool, error) {
	n, err := d.col.CountDocuments(ctx, byUser(userID), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count %s documents: %w", d.col.Name(), err)
	}
	return n > 0, nil
}

// upsert applies ops to the user's document, creating it first when absent.
func (d userDocuments) upsert(ctx context.Context, filter bson.M, ops bson.M) (*mongo.UpdateResult, error) {
	now := time.Now().UTC()
	set, _ := ops["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = now
	ops["$set"] = set
	ops["$setOnInsert"] = bson.M{"createdAt": now}

	return d.col.UpdateOne(ctx, filter, ops, options.Update().SetUpsert(true))
}

// update applies ops to an existing document only.
func (d userDocuments) update(ctx context.Context, filter bson.M, ops bson.M) (*mongo.UpdateResult, error) {
	set, _ := ops["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = time.Now().UTC()
	ops["$set"] = set

	return d.col.UpdateOne(ctx, filter, ops)
}

// setField overwrites one field wholesale (write-replace).
func (d userDocuments) setField(ctx context.Context, userID, field string, value any) error {
	_, err := d.upsert(ctx, byUser(userID), bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("set %s.%s: %w", d.col.Name(), field, err)
	}
	return nil
}

// addToSet adds value to an array field unless already present (write-append-unique).
func (d userDocuments) addToSet(ctx context.Context, userID, field string, value any) error {
	_, err := d.upsert(ctx, byUser(userID), bson.M{"$addToSet": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("add to %s.%s: %w", d.col.Name(), field, err)
	}
	return nil
}

// pull removes every element of an array field matching cond. Pulling from a
// missing document or a missing value is a no-op.
func (d userDocuments) pull(ctx context.Context, userID, field string, cond any) error {
	_, err := d.update(ctx, byUser(userID), bson.M{"$pull": bson.M{field: cond}})
	if err != nil {
		return fmt.Errorf("pull from %s.%s: %w", d.col.Name(), field, err)
	}
	return nil
}

// push appends value to an array field (write-append, no uniqueness check).
func (d userDocuments) push(ctx context.Context, userID, field string, value any) error {
	_, err := d.upsert(ctx, byUser(userID), bson.M{"$push": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("push to %s.%s: %w", d.col.Name(), field, err)
	}
	return nil
}

// pushUnlessItem appends item to the items array unless an element with the
// same id is already there. The filter excludes documents holding the id, so
// the upsert collides with the unique userId index instead of appending; that
// collision is reported as duplicate=true.
func (d userDocuments) pushUnlessItem(ctx context.Context, userID, itemID string, item any) (duplicate bool, err error) {
	filter := bson.M{"userId": userID, "items.id": bson.M{"$ne": itemID}}
	_, err = d.upsert(ctx, filter, bson.M{"$push": bson.M{"items": item}})
	if mongo.IsDuplicateKeyError(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("push to %s.items: %w", d.col.Name(), err)
	}
	return false, nil
}

// removeItem pulls the element with itemID out of the items array. It reports
// whether the parent document exists and whether an item was removed.
func (d userDocuments) removeItem(ctx context.Context, userID, itemID string) (docFound, itemFound bool, err error) {
	filter := bson.M{"userId": userID, "items.id": itemID}
	res, err := d.update(ctx, filter, bson.M{"$pull": bson.M{"items": bson.M{"id": itemID}}})
	if err != nil {
		return false, false, fmt.Errorf("remove %s item: %w", d.col.Name(), err)
	}
	if res.MatchedCount > 0 {
		return true, true, nil
	}
	docFound, err = d.exists(ctx, userID)
	return docFound, false, err
}

// updateItem applies ops to the element with itemID using the positional operator.
func (d userDocuments) updateItem(ctx context.Context, userID, itemID string, ops bson.M) (docFound, itemFound bool, err error) {
	filter := bson.M{"userId": userID, "items.id": itemID}
	res, err := d.update(ctx, filter, ops)
	if err != nil {
		return false, false, fmt.Errorf("update %s item: %w", d.col.Name(), err)
	}
	if res.MatchedCount > 0 {
		return true, true, nil
	}
	docFound, err = d.exists(ctx, userID)
	return docFound, false, err
}
