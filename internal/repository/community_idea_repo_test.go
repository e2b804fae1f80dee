package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woopit/woopit-server/internal/db"
	"github.com/woopit/woopit-server/internal/repository"
)

func TestIdeasListNewestFirstWithAuthors(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewCommunityIdeaRepository(gdb)

	users := []db.User{
		{FirstName: "Ada", LastName: "L", Age: 30, Email: "ada@test.com", PasswordHash: "x"},
		{FirstName: "Ben", LastName: "K", Age: 28, Email: "ben@test.com", PasswordHash: "x"},
	}
	require.NoError(t, gdb.Create(&users).Error)

	base := time.Now().UTC().Truncate(time.Millisecond)
	older := db.CommunityIdea{
		UserID: users[0].ID, Title: "Night padel",
		Description: "Floodlit courts after work", CreatedAt: base.Add(-time.Hour),
	}
	newer := db.CommunityIdea{
		UserID: users[1].ID, Title: "Lake hike",
		Description: "Sunday morning loop", CreatedAt: base,
	}
	require.NoError(t, repo.Save(ctx, &older))
	require.NoError(t, repo.Save(ctx, &newer))

	ideas, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 2)
	assert.Equal(t, "Lake hike", ideas[0].Title)
	assert.Equal(t, "Ben", ideas[0].FirstName)
	assert.Equal(t, "Night padel", ideas[1].Title)
	assert.Equal(t, "Ada", ideas[1].FirstName)
}
