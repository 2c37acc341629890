// Package crud holds the find, page, save and delete plumbing shared by the
// entity stores.
package crud

import (
	"context"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Get loads the document with id into a new T. Returns mongo.ErrNoDocuments
// when it does not exist.
func Get[T any](ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (*T, error) {
	var out T
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindOne loads the first document matching filter.
func FindOne[T any](ctx context.Context, c *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	if err := c.FindOne(ctx, filter, opts...).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Find returns every document matching filter.
func Find[T any](ctx context.Context, c *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Page returns page p of the documents matching filter, newest first, and the
// total number of matches. sort overrides the default order when non-nil.
func Page[T any](ctx context.Context, c *mongo.Collection, filter bson.M, p paging.Page, sort bson.D) ([]T, int64, error) {
	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := paging.FindOptions(p)
	if sort != nil {
		opts.SetSort(append(sort, bson.E{Key: "_id", Value: -1}))
	}
	items, err := Find[T](ctx, c, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SetFields marshals doc into a $set document, leaving out _id, created_at
// and the named keys, and stamping updated_at with now. Store-maintained
// counters are passed in skip so a save never rewinds them.
func SetFields(doc interface{}, now time.Time, skip ...string) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	delete(set, "_id")
	delete(set, "created_at")
	for _, k := range skip {
		delete(set, k)
	}
	set["updated_at"] = now
	return set, nil
}

// Save writes doc over the document with id, keeping skip fields as stored.
// Returns mongo.ErrNoDocuments when nothing matched.
func Save(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, doc interface{}, now time.Time, skip ...string) error {
	set, err := SetFields(doc, now, skip...)
	if err != nil {
		return err
	}
	res, err := c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the document with id. Returns mongo.ErrNoDocuments when
// nothing was deleted.
func Delete(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) error {
	res, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Inc adds delta to field on the document with id.
func Inc(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, field string, delta int) error {
	res, err := c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountBy groups the documents matching match by field and counts each
// group. Documents without the field count under "".
func CountBy(ctx context.Context, c *mongo.Collection, match bson.M, field string) (map[string]int64, error) {
	if match == nil {
		match = bson.M{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
	}
	cur, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			ID    interface{} `bson:"_id"`
			Count int64       `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		key, _ := row.ID.(string)
		out[key] += row.Count
	}
	return out, cur.Err()
}
