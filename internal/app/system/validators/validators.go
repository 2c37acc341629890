// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/careerhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. The schemas only guard structural types; field rules live in the
// request validators. Servers without collMod support are skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("trainings", trainingsSchema())
	ensure("enrollments", enrollmentsSchema())
	ensure("products", productsSchema())
	ensure("blog_posts", blogPostsSchema())
	ensure("announcements", announcementsSchema())
	ensure("jobs", postingSchema())
	ensure("internships", postingSchema())
	ensure("job_applications", applicationSchema("job"))
	ensure("internship_applications", applicationSchema("internship"))
	ensure("team_members", teamMembersSchema())
	ensure("website_content", websiteContentSchema())

	// No validators needed; make sure the collections exist.
	ensure("audit_logs", nil)
	ensure("oauth_states", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	// moderate: existing invalid documents can still be updated
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func enumOf(vals []string) bson.A {
	out := make(bson.A, 0, len(vals))
	for _, v := range vals {
		out = append(out, v)
	}
	return out
}

func schema(required bson.A, props bson.M) bson.M {
	props["created_at"] = bson.M{"bsonType": "date"}
	props["updated_at"] = bson.M{"bsonType": "date"}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return schema(bson.A{"name", "email", "role"}, bson.M{
		"name":     nonBlank,
		"email":    nonBlank,
		"role":     bson.M{"enum": enumOf(models.AllRoles)},
		"active":   bson.M{"bsonType": "bool"},
		"provider": bson.M{"enum": bson.A{models.ProviderCredentials, models.ProviderGoogle}},
	})
}

func trainingsSchema() bson.M {
	return schema(bson.A{"title", "category", "level"}, bson.M{
		"title":            nonBlank,
		"category":         bson.M{"enum": enumOf(models.TrainingCategories)},
		"level":            bson.M{"enum": enumOf(models.TrainingLevels)},
		"price":            bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0},
		"enrollment_count": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
		"created_by":       bson.M{"bsonType": "objectId"},
	})
}

func enrollmentsSchema() bson.M {
	return schema(bson.A{"user", "training", "status"}, bson.M{
		"user":     bson.M{"bsonType": "objectId"},
		"training": bson.M{"bsonType": "objectId"},
		"status":   bson.M{"enum": enumOf(models.EnrollmentStatuses)},
		"progress": bson.M{"bsonType": "object"},
	})
}

func productsSchema() bson.M {
	return schema(bson.A{"name", "category", "status"}, bson.M{
		"name":     nonBlank,
		"category": bson.M{"enum": enumOf(models.ProductCategories)},
		"status":   bson.M{"enum": enumOf(models.ProductStatuses)},
	})
}

func blogPostsSchema() bson.M {
	return schema(bson.A{"title", "slug", "status", "author"}, bson.M{
		"title":  nonBlank,
		"slug":   nonBlank,
		"status": bson.M{"enum": enumOf(models.BlogStatuses)},
		"author": bson.M{"bsonType": "objectId"},
	})
}

func announcementsSchema() bson.M {
	return schema(bson.A{"title", "content", "type", "priority"}, bson.M{
		"title":           nonBlank,
		"type":            bson.M{"enum": enumOf(models.AnnouncementTypes)},
		"priority":        bson.M{"enum": enumOf(models.AnnouncementPriorities)},
		"target_audience": bson.M{"enum": enumOf(models.AnnouncementAudiences)},
		"start_date":      bson.M{"bsonType": "date"},
	})
}

func postingSchema() bson.M {
	return schema(bson.A{"title", "status"}, bson.M{
		"title":             nonBlank,
		"status":            bson.M{"enum": enumOf(models.PostingStatuses)},
		"application_count": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
		"created_by":        bson.M{"bsonType": "objectId"},
	})
}

func applicationSchema(parent string) bson.M {
	return schema(bson.A{parent, "applicant", "status"}, bson.M{
		parent:      bson.M{"bsonType": "objectId"},
		"applicant": bson.M{"bsonType": "object", "required": bson.A{"name", "email"}},
		"status":    bson.M{"enum": enumOf(models.ApplicationStatuses)},
	})
}

func teamMembersSchema() bson.M {
	return schema(bson.A{"name", "position"}, bson.M{
		"name":     nonBlank,
		"position": nonBlank,
		"order":    bson.M{"bsonType": bson.A{"int", "long"}},
	})
}

func websiteContentSchema() bson.M {
	return schema(bson.A{"section", "key", "type"}, bson.M{
		"section": nonBlank,
		"key":     nonBlank,
		"type":    bson.M{"enum": enumOf(models.ContentTypes)},
	})
}
