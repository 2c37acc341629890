package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialLinks are a team member's public profiles.
type SocialLinks struct {
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	GitHub   string `bson:"github,omitempty" json:"github,omitempty"`
}

// TeamMember is a person shown on the public team page.
type TeamMember struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"`
	Position   string             `bson:"position" json:"position"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	Bio        string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Social     SocialLinks        `bson:"social" json:"social"`
	Order      int                `bson:"order" json:"order"`
	Active     *bool              `bson:"active,omitempty" json:"active,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
