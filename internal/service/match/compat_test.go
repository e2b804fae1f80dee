package match

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/app"
	"github.com/woopit/woopit-server/internal/cache"
	"github.com/woopit/woopit-server/internal/config"
	"github.com/woopit/woopit-server/internal/db"
	"github.com/woopit/woopit-server/internal/repository"
)

func request(id, userID uint64, lat, lon, radius float64, createdAt time.Time) db.MatchRequest {
	return db.MatchRequest{
		ID:              id,
		UserID:          userID,
		Activity:        "Padel",
		Level:           db.LevelIntermediate,
		Gender:          db.GenderEither,
		MaxParticipants: 3,
		RadiusKm:        radius,
		Latitude:        lat,
		Longitude:       lon,
		Status:          db.MatchStatusPending,
		CreatedAt:       createdAt,
	}
}

func TestSelectCompatibleUsesTighterRadius(t *testing.T) {
	base := time.Now()
	req := request(1, 1, 45.4642, 9.1900, 50, base)

	// ~30 km north; qualifies only while both radii cover it
	far := request(2, 2, 45.4642+0.27, 9.1900, 50, base)
	got := selectCompatible(&req, []db.MatchRequest{far})
	require.Len(t, got, 1)

	far.RadiusKm = 10 // candidate's own limit now excludes it
	got = selectCompatible(&req, []db.MatchRequest{far})
	assert.Empty(t, got)

	req.RadiusKm = 10 // and so does the requester's
	far.RadiusKm = 50
	got = selectCompatible(&req, []db.MatchRequest{far})
	assert.Empty(t, got)
}

func TestSelectCompatibleDedupKeepsFirst(t *testing.T) {
	base := time.Now()
	req := request(10, 1, 45.4642, 9.1900, 20, base)

	pool := []db.MatchRequest{
		request(2, 7, 45.4642, 9.1900, 20, base.Add(-2*time.Hour)),
		request(3, 7, 45.4642, 9.1900, 20, base.Add(-time.Hour)),
		request(4, 8, 45.4642, 9.1900, 20, base.Add(-time.Minute)),
	}

	got := selectCompatible(&req, pool)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[0].ID)
	assert.Equal(t, uint64(4), got[1].ID)
}

func TestSelectCompatibleDedupSkipsIncompatibleDuplicate(t *testing.T) {
	base := time.Now()
	req := request(10, 1, 45.4642, 9.1900, 20, base)

	// the user's earliest row is out of range; the later, closer one must
	// still get its shot
	pool := []db.MatchRequest{
		request(2, 7, 45.4642+0.27, 9.1900, 5, base.Add(-2*time.Hour)),
		request(3, 7, 45.4642, 9.1900, 20, base.Add(-time.Hour)),
	}

	got := selectCompatible(&req, pool)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(3), got[0].ID)
}

func TestInsertByCreationOrdersByTimestampThenID(t *testing.T) {
	base := time.Now()
	group := []db.MatchRequest{
		request(1, 1, 0, 0, 20, base.Add(-2*time.Hour)),
		request(5, 2, 0, 0, 20, base.Add(-time.Hour)),
	}

	// strictly between the two
	mid := request(9, 3, 0, 0, 20, base.Add(-90*time.Minute))
	got := insertByCreation(group, mid)
	require.Len(t, got, 3)
	assert.Equal(t, []uint64{1, 9, 5}, []uint64{got[0].ID, got[1].ID, got[2].ID})

	// same timestamp as the second entry: lower id wins
	tied := request(4, 4, 0, 0, 20, base.Add(-time.Hour))
	got = insertByCreation(group, tied)
	assert.Equal(t, []uint64{1, 4, 5}, []uint64{got[0].ID, got[1].ID, got[2].ID})

	// newest of all goes last
	newest := request(7, 5, 0, 0, 20, base)
	got = insertByCreation(group, newest)
	assert.Equal(t, uint64(7), got[2].ID)
}

// TestCommitGroupRollsBackOnLostRace drives the commit against a group whose
// member was consumed between selection and commit. The conditional update
// must fail the transaction and leave no session behind.
func TestCommitGroupRollsBackOnLostRace(t *testing.T) {
	ctx := context.Background()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	cfg := config.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(gdb, cache.NewRedisCache(cfg), log, cfg)
	engine := NewEngine(appCtx)

	base := time.Now().UTC().Truncate(time.Millisecond)
	a := request(0, 1, 45.4642, 9.1900, 20, base.Add(-time.Hour))
	b := request(0, 2, 45.4642, 9.1900, 20, base.Add(-time.Minute))
	require.NoError(t, gdb.Create(&a).Error)
	require.NoError(t, gdb.Create(&b).Error)

	// a racing submission consumed b after it was selected
	stolen := uint64(99)
	require.NoError(t, gdb.Model(&db.MatchRequest{}).Where("id = ?", b.ID).
		Updates(map[string]any{"status": db.MatchStatusMatched, "woop_id": stolen}).Error)

	req := a
	req.MaxParticipants = 2
	_, err = engine.commitGroup(ctx, &req, []db.MatchRequest{a, b})
	assert.ErrorIs(t, err, repository.ErrConcurrentMatch)

	// no dangling session, no flipped survivor
	var woops, participants int64
	require.NoError(t, gdb.Model(&db.Woop{}).Count(&woops).Error)
	require.NoError(t, gdb.Model(&db.Participant{}).Count(&participants).Error)
	assert.Zero(t, woops)
	assert.Zero(t, participants)

	var row db.MatchRequest
	require.NoError(t, gdb.First(&row, a.ID).Error)
	assert.Equal(t, db.MatchStatusPending, row.Status)
}
