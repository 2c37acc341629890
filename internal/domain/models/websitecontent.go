// internal/domain/models/websitecontent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content value types.
var ContentTypes = []string{"text", "html", "image", "list", "object"}

// WebsiteContent is one editable key of a public site section.
// (section, key) is unique.
type WebsiteContent struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Section   string              `bson:"section" json:"section"`
	Key       string              `bson:"key" json:"key"`
	Value     interface{}         `bson:"value" json:"value"`
	Type      string              `bson:"type" json:"type"`
	Order     int                 `bson:"order" json:"order"`
	UpdatedBy *primitive.ObjectID `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
