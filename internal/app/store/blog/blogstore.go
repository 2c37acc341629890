package blogstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/search"
	"github.com/dalemusser/careerhub/internal/app/system/slug"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateSlug is returned when another post already uses the slug derived from the title.
	ErrDuplicateSlug = errors.New("a post with this title already exists")
	// ErrEmptySlug is returned when the title has no letters or digits to build a slug from.
	ErrEmptySlug = errors.New("title must contain letters or digits")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("blog_posts")}
}

// Prepare derives the stored fields of p: the slug from the title,
// sanitized content, and the excerpt when none was supplied.
func Prepare(p *models.BlogPost) error {
	p.Title = normalize.Name(p.Title)
	p.Slug = slug.Make(p.Title)
	if p.Slug == "" {
		return ErrEmptySlug
	}
	p.Content = htmlsanitize.Sanitize(p.Content)
	if p.Excerpt == "" {
		p.Excerpt = htmlsanitize.Excerpt(p.Content, models.ExcerptLength)
	} else {
		p.Excerpt = htmlsanitize.StripTags(p.Excerpt)
	}
	p.Tags = normalize.Tags(p.Tags)
	if p.Status == "" {
		p.Status = models.BlogDraft
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	return nil
}

// Create inserts a post. A post created as published gets its publish time.
func (s *Store) Create(ctx context.Context, p models.BlogPost) (models.BlogPost, error) {
	if err := Prepare(&p); err != nil {
		return models.BlogPost{}, err
	}
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.PublishedAt = nil
	p.ApplyStatus(p.Status, now)
	p.ViewCount, p.LikeCount = 0, 0
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.BlogPost{}, ErrDuplicateSlug
		}
		return models.BlogPost{}, err
	}
	return p, nil
}

// GetByID loads a post. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	return crud.Get[models.BlogPost](ctx, s.c, id)
}

// GetBySlug loads a post by slug. With publishedOnly drafts and archived
// posts are reported as missing.
func (s *Store) GetBySlug(ctx context.Context, sl string, publishedOnly bool) (*models.BlogPost, error) {
	q := bson.M{"slug": sl}
	if publishedOnly {
		q["status"] = models.BlogPublished
	}
	return crud.FindOne[models.BlogPost](ctx, s.c, q)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Search   string
	Status   string
	Category string
	Tag      string
	AuthorID *primitive.ObjectID
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	search.Apply(q, f.Search, "title", "excerpt", "tags", "category")
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Tag != "" {
		q["tags"] = f.Tag
	}
	if f.AuthorID != nil {
		q["author"] = *f.AuthorID
	}
	return q
}

// List returns one page of posts without their comment threads, and the
// total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.BlogPost, int64, error) {
	q := f.query()
	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	opts := paging.FindOptions(p).SetProjection(bson.M{"comments": 0, "content": 0})
	items, err := crud.Find[models.BlogPost](ctx, s.c, q, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save writes p after re-deriving slug, content and excerpt. publishedAt is
// set on the first transition to published and kept afterwards.
func (s *Store) Save(ctx context.Context, p *models.BlogPost) error {
	if err := Prepare(p); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.ApplyStatus(p.Status, now)
	err := crud.Save(ctx, s.c, p.ID, p, now, "comments", "view_count", "like_count", "author")
	if wafflemongo.IsDup(err) {
		return ErrDuplicateSlug
	}
	if err == nil {
		p.UpdatedAt = now
	}
	return err
}

// Delete removes a post. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return crud.Delete(ctx, s.c, id)
}

// IncViews adds one view.
func (s *Store) IncViews(ctx context.Context, id primitive.ObjectID) error {
	return crud.Inc(ctx, s.c, id, "view_count", 1)
}

// Like adds one like and returns the new count.
func (s *Store) Like(ctx context.Context, id primitive.ObjectID) (int, error) {
	var out struct {
		LikeCount int `bson:"like_count"`
	}
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"like_count": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(bson.M{"like_count": 1}),
	).Decode(&out)
	return out.LikeCount, err
}

// AddComment appends c to the post's comments. New comments await approval.
func (s *Store) AddComment(ctx context.Context, postID primitive.ObjectID, c models.Comment) (models.Comment, error) {
	c.ID = primitive.NewObjectID()
	c.Approved = false
	c.CreatedAt = time.Now().UTC()
	if c.Replies == nil {
		c.Replies = []models.CommentReply{}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return models.Comment{}, err
	}
	if res.MatchedCount == 0 {
		return models.Comment{}, mongo.ErrNoDocuments
	}
	return c, nil
}

// AddReply appends r to the replies of comment commentID. Returns
// mongo.ErrNoDocuments when the post or comment does not exist.
func (s *Store) AddReply(ctx context.Context, postID, commentID primitive.ObjectID, r models.CommentReply) (models.CommentReply, error) {
	r.ID = primitive.NewObjectID()
	r.CreatedAt = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{"$push": bson.M{"comments.$.replies": r}},
	)
	if err != nil {
		return models.CommentReply{}, err
	}
	if res.MatchedCount == 0 {
		return models.CommentReply{}, mongo.ErrNoDocuments
	}
	return r, nil
}

// SetCommentApproved approves or hides a comment.
func (s *Store) SetCommentApproved(ctx context.Context, postID, commentID primitive.ObjectID, approved bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": postID, "comments._id": commentID},
		bson.M{"$set": bson.M{"comments.$.approved": approved}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// Summarize counts posts by status.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var out Summary
	var err error
	if out.ByStatus, err = crud.CountBy(ctx, s.c, nil, "status"); err != nil {
		return out, err
	}
	for _, n := range out.ByStatus {
		out.Total += n
	}
	return out, nil
}
