// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// collectionIndexes pairs a collection with the indexes it should carry.
type collectionIndexes struct {
	name   string
	models []mongo.IndexModel
}

/*
EnsureAll is called at startup. Every index set is reconciled idempotently and
all problems are reported together so startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, ci := range all() {
		if err := ensureIndexSet(ctx, db.Collection(ci.name), ci.models); err != nil {
			problems = append(problems, ci.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

// newest is the default list sort: created_at desc, _id desc.
var newest = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func withNewest(prefix ...bson.E) bson.D {
	keys := bson.D(prefix)
	return append(keys, newest...)
}

func all() []collectionIndexes {
	return []collectionIndexes{
		{"users", []mongo.IndexModel{
			uniq("uniq_users_email", bson.D{{Key: "email", Value: 1}}),
			idx("idx_users_role_created", withNewest(bson.E{Key: "role", Value: 1})),
			idx("idx_users_created", newest),
		}},
		{"trainings", []mongo.IndexModel{
			idx("idx_trainings_category_level_created", withNewest(
				bson.E{Key: "category", Value: 1}, bson.E{Key: "level", Value: 1})),
			idx("idx_trainings_featured", bson.D{{Key: "featured", Value: 1}}),
			idx("idx_trainings_created", newest),
		}},
		{"enrollments", []mongo.IndexModel{
			uniq("uniq_enrollments_user_training", bson.D{{Key: "user", Value: 1}, {Key: "training", Value: 1}}),
			idx("idx_enrollments_training", bson.D{{Key: "training", Value: 1}}),
			idx("idx_enrollments_status_created", withNewest(bson.E{Key: "status", Value: 1})),
			idx("idx_enrollments_created", newest),
		}},
		{"products", []mongo.IndexModel{
			idx("idx_products_category_status_created", withNewest(
				bson.E{Key: "category", Value: 1}, bson.E{Key: "status", Value: 1})),
			idx("idx_products_created", newest),
		}},
		{"blog_posts", []mongo.IndexModel{
			uniq("uniq_blog_posts_slug", bson.D{{Key: "slug", Value: 1}}),
			idx("idx_blog_posts_status_created", withNewest(bson.E{Key: "status", Value: 1})),
			idx("idx_blog_posts_category", bson.D{{Key: "category", Value: 1}}),
		}},
		{"announcements", []mongo.IndexModel{
			idx("idx_announcements_active_window", bson.D{
				{Key: "active", Value: 1},
				{Key: "start_date", Value: 1},
				{Key: "end_date", Value: 1},
			}),
			idx("idx_announcements_rank_created", bson.D{{Key: "priority_rank", Value: -1}, {Key: "created_at", Value: -1}}),
		}},
		{"jobs", []mongo.IndexModel{
			idx("idx_jobs_status_created", withNewest(bson.E{Key: "status", Value: 1})),
			idx("idx_jobs_status_deadline", bson.D{{Key: "status", Value: 1}, {Key: "application_deadline", Value: 1}}),
			idx("idx_jobs_department", bson.D{{Key: "department", Value: 1}}),
		}},
		{"job_applications", []mongo.IndexModel{
			uniq("uniq_job_applications_job_email", bson.D{{Key: "job", Value: 1}, {Key: "applicant.email", Value: 1}}),
			idx("idx_job_applications_status_created", withNewest(bson.E{Key: "status", Value: 1})),
			idx("idx_job_applications_created", newest),
		}},
		{"internships", []mongo.IndexModel{
			idx("idx_internships_status_created", withNewest(bson.E{Key: "status", Value: 1})),
			idx("idx_internships_status_deadline", bson.D{{Key: "status", Value: 1}, {Key: "application_deadline", Value: 1}}),
		}},
		{"internship_applications", []mongo.IndexModel{
			uniq("uniq_internship_applications_internship_email",
				bson.D{{Key: "internship", Value: 1}, {Key: "applicant.email", Value: 1}}),
			idx("idx_internship_applications_status_created", withNewest(bson.E{Key: "status", Value: 1})),
			idx("idx_internship_applications_created", newest),
		}},
		{"team_members", []mongo.IndexModel{
			idx("idx_team_members_order", bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}}),
		}},
		{"website_content", []mongo.IndexModel{
			uniq("uniq_website_content_section_key", bson.D{{Key: "section", Value: 1}, {Key: "key", Value: 1}}),
			idx("idx_website_content_section_order", bson.D{{Key: "section", Value: 1}, {Key: "order", Value: 1}}),
		}},
		{"audit_logs", []mongo.IndexModel{
			idx("idx_audit_created", bson.D{{Key: "created_at", Value: -1}}),
			idx("idx_audit_category_created", bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_audit_actor_created", bson.D{{Key: "actor_id", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"oauth_states", []mongo.IndexModel{
			uniq("uniq_oauth_states_state", bson.D{{Key: "state", Value: 1}}),
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("ttl_oauth_states_expires").SetExpireAfterSeconds(0),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile one collection                                                    */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(p *bool) bool { return p != nil && *p }

// Best-effort duplicate detector (works across Mongo-compatible vendors).
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// IndexOptionsConflict is returned when the same keys exist under another
// name or with different options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(ix.Key)] = ix
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolVal(unique)))

		ex, found := existing[sig]
		if found && boolVal(ex.Unique) == boolVal(unique) && (name == "" || ex.Name == name) {
			log.Debug("reusing existing index")
			continue
		}
		if found {
			// Same keys, different name or options: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		_, err := coll.Indexes().CreateOne(ctx, m)
		if isOptionsConflictErr(err) {
			// Another instance may have created it meanwhile; re-list and retry once.
			if ex2, ok := listExisting(ctx, coll)[sig]; ok {
				if boolVal(ex2.Unique) == boolVal(unique) {
					log.Info("reusing existing index (post-conflict)", zap.String("existing", ex2.Name))
					continue
				}
				if _, dropErr := coll.Indexes().DropOne(ctx, ex2.Name); dropErr != nil {
					log.Warn("failed to drop conflicting index", zap.Error(dropErr))
				}
				_, err = coll.Indexes().CreateOne(ctx, m)
			}
		}
		if err != nil {
			log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
			if isDuplicateKeyErr(err) && boolVal(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
