// internal/domain/models/blogpost.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog post statuses.
const (
	BlogDraft     = "draft"
	BlogPublished = "published"
	BlogArchived  = "archived"
)

// BlogStatuses lists every blog post status.
var BlogStatuses = []string{BlogDraft, BlogPublished, BlogArchived}

// ExcerptLength is the number of characters kept for a derived excerpt.
const ExcerptLength = 200

// CommentReply is a reply nested under a comment.
type CommentReply struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	UserID    *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Content   string              `bson:"content" json:"content"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
}

// Comment is a reader comment on a post. Unapproved comments are only shown
// to staff.
type Comment struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	UserID    *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Content   string              `bson:"content" json:"content"`
	Approved  bool                `bson:"approved" json:"approved"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
	Replies   []CommentReply      `bson:"replies" json:"replies"`
}

// SEO holds per-document search metadata.
type SEO struct {
	MetaTitle       string   `bson:"meta_title,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string   `bson:"meta_description,omitempty" json:"metaDescription,omitempty"`
	Keywords        []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// BlogPost is an article on the company blog.
type BlogPost struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Content       string             `bson:"content" json:"content"`
	Excerpt       string             `bson:"excerpt" json:"excerpt"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Tags          []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	FeaturedImage string             `bson:"featured_image,omitempty" json:"featuredImage,omitempty"`
	Status        string             `bson:"status" json:"status"`
	PublishedAt   *time.Time         `bson:"published_at,omitempty" json:"publishedAt,omitempty"`
	AuthorID      primitive.ObjectID `bson:"author" json:"author"`
	Comments      []Comment          `bson:"comments" json:"comments"`
	ViewCount     int                `bson:"view_count" json:"viewCount"`
	LikeCount     int                `bson:"like_count" json:"likeCount"`
	SEO           SEO                `bson:"seo" json:"seo"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ApplyStatus sets the status and stamps PublishedAt on the first move to
// published. PublishedAt is never cleared.
func (p *BlogPost) ApplyStatus(status string, now time.Time) {
	p.Status = status
	if status == BlogPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// ApprovedComments returns only approved comments.
func (p *BlogPost) ApprovedComments() []Comment {
	out := make([]Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		if c.Approved {
			out = append(out, c)
		}
	}
	return out
}
