package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserRef is a user reference after populate: enough to show who did something.
type UserRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  string             `json:"role,omitempty"`
}

// TrainingRef is a populated training reference.
type TrainingRef struct {
	ID       primitive.ObjectID `json:"id"`
	Title    string             `json:"title"`
	Category string             `json:"category"`
	Level    string             `json:"level"`
}

// PostingRef is a populated job or internship reference.
type PostingRef struct {
	ID         primitive.ObjectID `json:"id"`
	Title      string             `json:"title"`
	Department string             `json:"department,omitempty"`
	Location   string             `json:"location,omitempty"`
	Status     string             `json:"status"`
}

// ActiveFlag interprets an optional active flag: nil means active.
func ActiveFlag(p *bool) bool {
	return p == nil || *p
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
