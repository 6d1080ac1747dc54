package repository_test

import (
	"context"
	"testing"

	"github.com/kendall-kelly/car-rent-api/models"
	"github.com/kendall-kelly/car-rent-api/repository"
	"github.com/kendall-kelly/car-rent-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Auth0ID: "auth0|abc", Name: "Anna", Email: "anna@example.com", Role: models.RolePerson}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByAuth0ID(ctx, "auth0|abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, models.RolePerson, got.Role)

	_, err = repo.GetByAuth0ID(ctx, "auth0|missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	tests := []struct {
		name string
		user *models.User
	}{
		{"duplicate auth0 id", &models.User{Auth0ID: "auth0|abc", Name: "Other", Email: "other@example.com"}},
		{"duplicate email", &models.User{Auth0ID: "auth0|xyz", Name: "Other", Email: "anna@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, repo.Create(ctx, tt.user), repository.ErrDuplicateUser)
		})
	}
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	anna := testutil.CreateUser(t, db, "auth0|anna", models.RolePerson)
	bob := testutil.CreateUser(t, db, "auth0|bob", models.RolePerson)

	anna.Name = "Anna K."
	anna.Email = "anna.k@example.com"
	require.NoError(t, repo.UpdateProfile(ctx, anna))

	got, err := repo.GetByAuth0ID(ctx, "auth0|anna")
	require.NoError(t, err)
	assert.Equal(t, "Anna K.", got.Name)
	assert.Equal(t, "anna.k@example.com", got.Email)

	bob.Email = "anna.k@example.com"
	assert.ErrorIs(t, repo.UpdateProfile(ctx, bob), repository.ErrDuplicateUser)

	ghost := &models.User{ID: 9999, Name: "Ghost", Email: "ghost@example.com"}
	assert.ErrorIs(t, repo.UpdateProfile(ctx, ghost), repository.ErrUserNotFound)
}
