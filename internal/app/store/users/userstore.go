package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/search"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New("role is not valid")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return crud.Get[models.User](ctx, s.c, id)
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return crud.FindOne[models.User](ctx, s.c, bson.M{"email": normalize.Email(email)})
}

// Create inserts a new user after normalizing fields. Role defaults to user
// and provider to credentials.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if u.Provider == "" {
		u.Provider = models.ProviderCredentials
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Search string
	Role   string
	Active *bool
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	search.Apply(q, f.Search, "name", "email")
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.Active != nil {
		q["active"] = activeQuery(*f.Active)
	}
	return q
}

// activeQuery matches the *bool active convention: a missing flag is active.
func activeQuery(active bool) interface{} {
	if active {
		return bson.M{"$ne": false}
	}
	return false
}

// List returns one page of users and the total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.User, int64, error) {
	return crud.Page[models.User](ctx, s.c, f.query(), p, nil)
}

// Save writes the editable fields of u. Password and last sign-in are
// changed only through their own methods.
func (s *Store) Save(ctx context.Context, u *models.User) error {
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	if !models.IsValidRole(u.Role) {
		return errBadRole
	}
	now := time.Now().UTC()
	err := crud.Save(ctx, s.c, u.ID, u, now, "password_hash", "last_login_at", "provider")
	if wafflemongo.IsDup(err) {
		return ErrDuplicateEmail
	}
	if err == nil {
		u.UpdatedAt = now
	}
	return err
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetActive activates or deactivates an account.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return s.set(ctx, id, bson.M{"active": active})
}

// SetPassword replaces the password hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.set(ctx, id, bson.M{"password_hash": hash})
}

// TouchLastLogin records a successful sign-in at now.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID, now time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login_at": now}})
	return err
}

// Delete removes a user. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return crud.Delete(ctx, s.c, id)
}

// FindOrCreateGoogle returns the user with email, creating a role=user
// account with provider=google when none exists. created reports whether a
// new account was inserted. Existing accounts keep their provider; a missing
// avatar is filled in.
func (s *Store) FindOrCreateGoogle(ctx context.Context, email, name, avatar string) (*models.User, bool, error) {
	u, err := s.GetByEmail(ctx, email)
	if err == nil {
		if u.Avatar == "" && avatar != "" {
			if err := s.set(ctx, u.ID, bson.M{"avatar": avatar}); err != nil {
				return nil, false, err
			}
			u.Avatar = avatar
		}
		return u, false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, err
	}

	if name == "" {
		name = normalize.Email(email)
	}
	created, err := s.Create(ctx, models.User{
		Name:     name,
		Email:    email,
		Role:     models.RoleUser,
		Provider: models.ProviderGoogle,
		Avatar:   avatar,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		// Lost a race with a concurrent first sign-in.
		u, err := s.GetByEmail(ctx, email)
		return u, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return &created, true, nil
}

// EnsureAdmin makes sure an active admin with email exists. A new account
// gets hash as its password; an existing one is promoted and reactivated but
// keeps its password. created reports whether an account was inserted.
func (s *Store) EnsureAdmin(ctx context.Context, email, name, hash string) (bool, error) {
	u, err := s.GetByEmail(ctx, email)
	if err == nil {
		if u.Role == models.RoleAdmin && u.IsActive() {
			return false, nil
		}
		return false, s.set(ctx, u.ID, bson.M{"role": models.RoleAdmin, "active": true})
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, err
	}
	_, err = s.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Provider:     models.ProviderCredentials,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	return err == nil, err
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"active"`
	Inactive int64            `json:"inactive"`
	ByRole   map[string]int64 `json:"byRole"`
}

// Summarize counts users overall, by active flag and by role.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var out Summary
	var err error
	if out.ByRole, err = crud.CountBy(ctx, s.c, nil, "role"); err != nil {
		return out, err
	}
	for _, n := range out.ByRole {
		out.Total += n
	}
	if out.Inactive, err = s.c.CountDocuments(ctx, bson.M{"active": false}); err != nil {
		return out, err
	}
	out.Active = out.Total - out.Inactive
	return out, nil
}

// Refs loads the populated form of the users in ids, keyed by id. Missing
// ids are absent from the map.
func (s *Store) Refs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	out := make(map[primitive.ObjectID]models.UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "role": 1})
	items, err := crud.Find[models.User](ctx, s.c, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = items[i].Ref()
	}
	return out, nil
}
