package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/db"
	"github.com/woopit/woopit-server/internal/repository"
)

func TestFindUserByIDAndEmail(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	u := &db.User{FirstName: "Ada", LastName: "L", Age: 30, Email: "ada@test.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@test.com", byID.Email)

	byEmail, err := repo.FindByEmail(ctx, "ada@test.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetInterestsReplacesAndSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewUserRepository(gdb)

	u := &db.User{FirstName: "Ada", LastName: "L", Age: 30, Email: "ada@test.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, gdb.Create(&[]db.Activity{{Name: "Padel"}, {Name: "Hiking"}}).Error)

	require.NoError(t, repo.SetInterests(ctx, u.ID, []string{"Padel", "Hiking"}))
	require.NoError(t, repo.SetInterests(ctx, u.ID, []string{"Hiking", "Curling"}))

	interests, err := repo.Interests(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hiking"}, interests)
}
