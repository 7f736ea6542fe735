package handlers_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"recipebook/models"
)

type mockRecipes struct{ mock.Mock }

func (m *mockRecipes) List(ctx context.Context) ([]models.Recipe, error) {
	args := m.Called(ctx)
	recipes, _ := args.Get(0).([]models.Recipe)
	return recipes, args.Error(1)
}

func (m *mockRecipes) Get(ctx context.Context, id string) (models.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Recipe), args.Error(1)
}

func (m *mockRecipes) ListByOwner(ctx context.Context, userID string) ([]models.Recipe, error) {
	args := m.Called(ctx, userID)
	recipes, _ := args.Get(0).([]models.Recipe)
	return recipes, args.Error(1)
}

func (m *mockRecipes) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(models.Recipe), args.Error(1)
}

func (m *mockRecipes) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRecipes) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	args := m.Called(ctx, query)
	recipes, _ := args.Get(0).([]models.Recipe)
	return recipes, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUsers) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUsers) UserByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

type mockSearcher struct{ mock.Mock }

func (m *mockSearcher) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	args := m.Called(ctx, query)
	recipes, _ := args.Get(0).([]models.Recipe)
	return recipes, args.Error(1)
}

type mockImages struct{ mock.Mock }

func (m *mockImages) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, r)
	return args.String(0), args.Error(1)
}

func (m *mockImages) Remove(publicURL string) error {
	return m.Called(publicURL).Error(0)
}
