package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"recipebook/models"
)

const (
	recipesCollection = "recipes"
	usersCollection   = "users"
)

// Firestore implements RecipeStore and UserStore on a Firestore database.
type Firestore struct {
	client *firestore.Client
}

// NewFirestore wraps an open client. The caller owns the client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (s *Firestore) List(ctx context.Context) ([]models.Recipe, error) {
	q := s.client.Collection(recipesCollection).OrderBy("created_at", firestore.Desc)
	return readRecipes(q.Documents(ctx))
}

func (s *Firestore) Get(ctx context.Context, id string) (models.Recipe, error) {
	doc, err := s.client.Collection(recipesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.Recipe{}, ErrNotFound
		}
		return models.Recipe{}, fmt.Errorf("get recipe %s: %w", id, err)
	}
	var r models.Recipe
	if err := doc.DataTo(&r); err != nil {
		return models.Recipe{}, fmt.Errorf("decode recipe %s: %w", id, err)
	}
	r.ID = doc.Ref.ID
	return r, nil
}

// ListByOwner avoids a composite index by filtering in Firestore and ordering
// here.
func (s *Firestore) ListByOwner(ctx context.Context, userID string) ([]models.Recipe, error) {
	q := s.client.Collection(recipesCollection).Where("created_by", "==", userID)
	recipes, err := readRecipes(q.Documents(ctx))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(recipes)
	return recipes, nil
}

func (s *Firestore) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if _, err := s.client.Collection(recipesCollection).Doc(r.ID).Create(ctx, r); err != nil {
		return models.Recipe{}, fmt.Errorf("create recipe: %w", err)
	}
	return r, nil
}

func (s *Firestore) Delete(ctx context.Context, id string) error {
	if _, err := s.client.Collection(recipesCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	return nil
}

// Search scans the collection newest first and keeps substring matches.
// Firestore has no substring operator.
func (s *Firestore) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, query), nil
}

func (s *Firestore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	u.Email = NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	users := s.client.Collection(usersCollection)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(users.Where("email", "==", u.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrEmailTaken
		}
		return tx.Create(users.Doc(u.ID), u)
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Firestore) UserByEmail(ctx context.Context, email string) (models.User, error) {
	iter := s.client.Collection(usersCollection).
		Where("email", "==", NormalizeEmail(email)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return decodeUser(doc)
}

func (s *Firestore) UserByID(ctx context.Context, id string) (models.User, error) {
	doc, err := s.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return decodeUser(doc)
}

func decodeUser(doc *firestore.DocumentSnapshot) (models.User, error) {
	var u models.User
	if err := doc.DataTo(&u); err != nil {
		return models.User{}, fmt.Errorf("decode user %s: %w", doc.Ref.ID, err)
	}
	u.ID = doc.Ref.ID
	return u, nil
}

func readRecipes(iter *firestore.DocumentIterator) ([]models.Recipe, error) {
	defer iter.Stop()

	recipes := []models.Recipe{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read recipes: %w", err)
		}
		var r models.Recipe
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("decode recipe %s: %w", doc.Ref.ID, err)
		}
		r.ID = doc.Ref.ID
		recipes = append(recipes, r)
	}
	return recipes, nil
}
