// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

// Collection is the website content collection name.
const Collection = "website_content"

//go:embed defaults.yaml
var defaultsYAML []byte

const allKey = "content:_all"

func sectionKey(section string) string { return "content:" + section }

var byOrder = options.Find().SetSort(bson.D{{Key: "section", Value: 1}, {Key: "order", Value: 1}, {Key: "key", Value: 1}})

// Store reads and writes website content. Reads go through cache when one
// is configured; every write deletes the affected cache keys after the
// database write succeeds.
type Store struct {
	c     *mongo.Collection
	cache cache.Cache
	ttl   time.Duration
}

// New creates a content store. c may be nil, in which case every read hits
// the database.
func New(db *mongo.Database, c cache.Cache, ttl time.Duration) *Store {
	return &Store{c: db.Collection(Collection), cache: c, ttl: ttl}
}

type defaultItem struct {
	Key   string      `yaml:"key"`
	Type  string      `yaml:"type"`
	Value interface{} `yaml:"value"`
}

// Defaults parses the embedded default content tree, keyed by section.
func Defaults() (map[string][]models.WebsiteContent, error) {
	var tree map[string][]defaultItem
	if err := yaml.Unmarshal(defaultsYAML, &tree); err != nil {
		return nil, fmt.Errorf("parse default content: %w", err)
	}
	out := make(map[string][]models.WebsiteContent, len(tree))
	for section, items := range tree {
		docs := make([]models.WebsiteContent, 0, len(items))
		for i, it := range items {
			docs = append(docs, models.WebsiteContent{
				Section: section,
				Key:     it.Key,
				Value:   it.Value,
				Type:    it.Type,
				Order:   i,
			})
		}
		out[section] = docs
	}
	return out, nil
}

// Sections lists the default section names in sorted order.
func Sections() []string {
	tree, err := Defaults()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(tree))
	for s := range tree {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Seed inserts the default content of sections, or of every default section
// when none are named. Keys that already exist are left alone, and names
// without defaults are ignored. Returns the number of documents inserted.
func (s *Store) Seed(ctx context.Context, sections ...string) (int, error) {
	tree, err := Defaults()
	if err != nil {
		return 0, err
	}
	if len(sections) == 0 {
		for sec := range tree {
			sections = append(sections, sec)
		}
	}
	now := time.Now().UTC()
	var docs []interface{}
	var seeded []string
	for _, sec := range sections {
		items, ok := tree[sec]
		if !ok {
			continue
		}
		seeded = append(seeded, sec)
		for _, it := range items {
			it.ID = primitive.NewObjectID()
			it.CreatedAt = now
			it.UpdatedAt = now
			docs = append(docs, it)
		}
	}
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicates(err) {
		return 0, err
	}
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if inserted > 0 {
		if err := s.invalidate(ctx, seeded...); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

// onlyDuplicates reports whether every write error in a bulk insert is a
// duplicate key.
func onlyDuplicates(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return true
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.WebsiteContent, error) {
	cur, err := s.c.Find(ctx, filter, byOrder)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.WebsiteContent{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Value = plain(out[i].Value)
	}
	return out, nil
}

// plain turns driver document and array types into maps and slices so values
// serialize as ordinary JSON.
func plain(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case primitive.A:
		a := make([]interface{}, len(t))
		for i, e := range t {
			a[i] = plain(e)
		}
		return a
	default:
		return v
	}
}

// cached returns the value under key when the cache has it, otherwise loads
// it and fills the cache. Cache failures fall back to load.
func cached[T any](ctx context.Context, s *Store, key string, load func() (T, error)) (T, error) {
	if s.cache != nil {
		if v, err := cache.GetJSON[T](ctx, s.cache, key); err == nil {
			return v, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if s.cache != nil {
		_ = cache.SetJSON(ctx, s.cache, key, v, s.ttl)
	}
	return v, nil
}

// Section returns the content of section ordered by order then key. A
// default section with no documents is seeded first. A section that has
// neither documents nor defaults returns mongo.ErrNoDocuments.
func (s *Store) Section(ctx context.Context, section string) ([]models.WebsiteContent, error) {
	return cached(ctx, s, sectionKey(section), func() ([]models.WebsiteContent, error) {
		items, err := s.find(ctx, bson.M{"section": section})
		if err != nil || len(items) > 0 {
			return items, err
		}
		if _, err := s.Seed(ctx, section); err != nil {
			return nil, err
		}
		if items, err = s.find(ctx, bson.M{"section": section}); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, mongo.ErrNoDocuments
		}
		return items, nil
	})
}

// All returns every section's content grouped by section. Default sections
// that have no documents yet are seeded first.
func (s *Store) All(ctx context.Context) (map[string][]models.WebsiteContent, error) {
	return cached(ctx, s, allKey, func() (map[string][]models.WebsiteContent, error) {
		items, err := s.find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		present := map[string]bool{}
		for _, it := range items {
			present[it.Section] = true
		}
		var missing []string
		for _, sec := range Sections() {
			if !present[sec] {
				missing = append(missing, sec)
			}
		}
		if len(missing) > 0 {
			if _, err := s.Seed(ctx, missing...); err != nil {
				return nil, err
			}
			if items, err = s.find(ctx, bson.M{}); err != nil {
				return nil, err
			}
		}
		grouped := map[string][]models.WebsiteContent{}
		for _, it := range items {
			grouped[it.Section] = append(grouped[it.Section], it)
		}
		return grouped, nil
	})
}

// inferType picks a content type for a key created through Upsert.
func inferType(v interface{}) string {
	switch v.(type) {
	case []interface{}:
		return "list"
	case map[string]interface{}:
		return "object"
	default:
		return "text"
	}
}

// Upsert writes each key/value pair of values into section. New keys are
// appended after the existing ones in key order. Returns the section as
// stored.
func (s *Store) Upsert(ctx context.Context, section string, values map[string]interface{}, by *primitive.ObjectID) ([]models.WebsiteContent, error) {
	existing, err := s.c.CountDocuments(ctx, bson.M{"section": section})
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(keys))
	for i, k := range keys {
		set := bson.M{"value": values[k], "updated_at": now}
		if by != nil {
			set["updated_by"] = *by
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"section": section, "key": k}).
			SetUpdate(bson.M{
				"$set": set,
				"$setOnInsert": bson.M{
					"_id":        primitive.NewObjectID(),
					"type":       inferType(values[k]),
					"order":      int(existing) + i,
					"created_at": now,
				},
			}).
			SetUpsert(true))
	}
	if len(writes) > 0 {
		if _, err := s.c.BulkWrite(ctx, writes); err != nil {
			return nil, err
		}
	}
	if err := s.invalidate(ctx, section); err != nil {
		return nil, err
	}
	return s.find(ctx, bson.M{"section": section})
}

// DeleteKey removes one key. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) DeleteKey(ctx context.Context, section, key string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"section": section, "key": key})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return s.invalidate(ctx, section)
}

// Reset deletes all content and seeds the defaults again. Returns the number
// of documents seeded.
func (s *Store) Reset(ctx context.Context) (int, error) {
	sections, err := s.c.Distinct(ctx, "section", bson.M{})
	if err != nil {
		return 0, err
	}
	if _, err := s.c.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, err
	}
	n, err := s.Seed(ctx)
	if err != nil {
		return 0, err
	}
	var names []string
	for _, sec := range sections {
		if name, ok := sec.(string); ok {
			names = append(names, name)
		}
	}
	return n, s.invalidate(ctx, names...)
}

func (s *Store) invalidate(ctx context.Context, sections ...string) error {
	if s.cache == nil {
		return nil
	}
	keys := []string{allKey}
	for _, sec := range sections {
		keys = append(keys, sectionKey(sec))
	}
	if md, ok := s.cache.(cache.MultiDeleter); ok {
		if err := md.DeleteMulti(ctx, keys); err != nil {
			return fmt.Errorf("invalidate content cache: %w", err)
		}
		return nil
	}
	for _, k := range keys {
		if err := s.cache.Delete(ctx, k); err != nil {
			return fmt.Errorf("invalidate content cache: %w", err)
		}
	}
	return nil
}
