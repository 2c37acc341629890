package contentstore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	contentstore "github.com/dalemusser/careerhub/internal/app/store/content"
	"github.com/dalemusser/careerhub/internal/app/system/indexes"
	"github.com/dalemusser/careerhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/cache"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newRedisCache(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedis(client), mr
}

func setup(t *testing.T) *mongo.Database {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return db
}

func TestDefaults(t *testing.T) {
	tree, err := contentstore.Defaults()
	if err != nil {
		t.Fatalf("Defaults failed: %v", err)
	}
	for _, sec := range []string{"hero", "about", "services", "trainings", "testimonials", "contact", "footer", "navigation", "seo"} {
		if len(tree[sec]) == 0 {
			t.Errorf("section %q missing from defaults", sec)
		}
	}
	hero := tree["hero"]
	for i, it := range hero {
		if it.Order != i || it.Section != "hero" || it.Key == "" || it.Type == "" {
			t.Errorf("hero[%d] = %+v", i, it)
		}
	}
}

func TestSection_SeedsOnFirstRead(t *testing.T) {
	db := setup(t)
	store := contentstore.New(db, nil, time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hero, err := store.Section(ctx, "hero")
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if len(hero) == 0 || hero[0].Key != "title" {
		t.Fatalf("hero: %+v", hero)
	}

	tree, _ := contentstore.Defaults()
	count := func() int64 {
		n, _ := db.Collection(contentstore.Collection).CountDocuments(ctx, bson.M{})
		return n
	}
	if got := count(); got != int64(len(tree["hero"])) {
		t.Errorf("seeded %d documents, want only hero's %d", got, len(tree["hero"]))
	}

	// All fills in the remaining default sections
	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	var want int64
	for sec, items := range tree {
		want += int64(len(items))
		if len(all[sec]) != len(items) {
			t.Errorf("%s: got %d items, want %d", sec, len(all[sec]), len(items))
		}
	}
	if got := count(); got != want {
		t.Errorf("seeded %d documents, want %d", got, want)
	}

	// seeding again with everything present inserts nothing
	n, err := store.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second seed inserted %d", n)
	}
}

func TestSection_UnknownIsNotSeeded(t *testing.T) {
	db := setup(t)
	store := contentstore.New(db, nil, time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Section(ctx, "no-such-section"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("unknown section: got %v, want ErrNoDocuments", err)
	}
	if n, _ := db.Collection(contentstore.Collection).CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("unknown section seeded %d documents", n)
	}

	if _, err := store.Upsert(ctx, "careers-fair", map[string]interface{}{"date": "May 4"}, nil); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	items, err := store.Section(ctx, "careers-fair")
	if err != nil || len(items) != 1 {
		t.Errorf("custom section: items=%d err=%v", len(items), err)
	}
}

func TestSeed_KeepsExistingKeys(t *testing.T) {
	db := setup(t)
	store := contentstore.New(db, nil, time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Upsert(ctx, "hero", map[string]interface{}{"title": "Custom"}, nil); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if _, err := store.Seed(ctx); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	hero, err := store.Section(ctx, "hero")
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	for _, it := range hero {
		if it.Key == "title" && it.Value != "Custom" {
			t.Errorf("seed overwrote title: %v", it.Value)
		}
	}
}

func TestUpsert_InvalidatesCache(t *testing.T) {
	db := setup(t)
	rc, mr := newRedisCache(t)
	store := contentstore.New(db, rc, time.Hour)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Section(ctx, "contact"); err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if !mr.Exists("content:contact") {
		t.Fatal("expected section to be cached")
	}

	editor := primitive.NewObjectID()
	if _, err := store.Upsert(ctx, "contact", map[string]interface{}{
		"email": "hello@careerhub.example",
		"hours": []interface{}{"Mon-Fri"},
	}, &editor); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if mr.Exists("content:contact") {
		t.Error("write should delete the cached section")
	}

	contact, err := store.Section(ctx, "contact")
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	byKey := map[string]interface{}{}
	types := map[string]string{}
	for _, it := range contact {
		byKey[it.Key] = it.Value
		types[it.Key] = it.Type
	}
	if byKey["email"] != "hello@careerhub.example" {
		t.Errorf("email: got %v", byKey["email"])
	}
	if types["hours"] != "list" || types["email"] != "text" {
		t.Errorf("types: %v", types)
	}
}

func TestCachedReadSurvivesDirectWrites(t *testing.T) {
	db := setup(t)
	rc, _ := newRedisCache(t)
	store := contentstore.New(db, rc, time.Hour)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Section(ctx, "seo")
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if _, err := db.Collection(contentstore.Collection).DeleteMany(ctx, bson.M{"section": "seo"}); err != nil {
		t.Fatalf("DeleteMany: %v", err)
	}
	again, err := store.Section(ctx, "seo")
	if err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if len(again) != len(first) {
		t.Errorf("expected cached copy, got %d items (had %d)", len(again), len(first))
	}
}

func TestDeleteKeyAndReset(t *testing.T) {
	db := setup(t)
	store := contentstore.New(db, nil, time.Minute)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Section(ctx, "footer"); err != nil {
		t.Fatalf("Section failed: %v", err)
	}
	if err := store.DeleteKey(ctx, "footer", "links"); err != nil {
		t.Fatalf("DeleteKey failed: %v", err)
	}
	if err := store.DeleteKey(ctx, "footer", "links"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second DeleteKey: got %v", err)
	}
	if _, err := store.Upsert(ctx, "custom", map[string]interface{}{"x": "y"}, nil); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if _, err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if _, ok := all["custom"]; ok {
		t.Error("reset should remove custom sections")
	}
	found := false
	for _, it := range all["footer"] {
		if it.Key == "links" {
			found = true
		}
	}
	if !found {
		t.Error("reset should restore deleted default keys")
	}
}
