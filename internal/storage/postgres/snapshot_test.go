package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/drivecontrol/internal/game/deck"
	"github.com/cory-johannsen/drivecontrol/internal/game/dice"
	"github.com/cory-johannsen/drivecontrol/internal/game/match"
	"github.com/cory-johannsen/drivecontrol/internal/storage/postgres"
	"github.com/cory-johannsen/drivecontrol/internal/testutil"
)

func setupSnapshotRepo(t *testing.T) *postgres.SnapshotRepository {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewSnapshotRepository(pc.RawPool)
}

func makeTestSnapshot(t *testing.T, seed uint64) match.Snapshot {
	t.Helper()
	cat, err := deck.DefaultCatalog()
	require.NoError(t, err)
	m, err := match.New(cat, match.Setup{
		Players: []match.PlayerSetup{
			{Name: "Alice", TeamID: match.TeamA},
			{Name: "Bob", TeamID: match.TeamB},
		},
		ReceivingTeamID:      match.TeamA,
		QuarterLengthSeconds: 360,
		QuartersTotal:        4,
		RunningClock:         true,
		PaceMultiplier:       1,
	}, dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop()), nil)
	require.NoError(t, err)
	return m.Snapshot()
}

func TestSnapshotRepository_SaveAndLoad(t *testing.T) {
	repo := setupSnapshotRepo(t)
	ctx := context.Background()

	matchID := uuid.New()
	snap := makeTestSnapshot(t, 1)
	require.NoError(t, repo.Save(ctx, matchID, snap))

	rec, err := repo.Load(ctx, matchID)
	require.NoError(t, err)
	assert.Equal(t, matchID, rec.MatchID)
	assert.Equal(t, snap, rec.Snapshot, "snapshot must round-trip through JSONB")
	assert.False(t, rec.CreatedAt.IsZero())
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestSnapshotRepository_SaveUpserts(t *testing.T) {
	repo := setupSnapshotRepo(t)
	ctx := context.Background()

	matchID := uuid.New()
	require.NoError(t, repo.Save(ctx, matchID, makeTestSnapshot(t, 1)))

	updated := makeTestSnapshot(t, 2)
	updated.Drive.BallPos = 45
	updated.Teams[match.TeamA] = match.Team{Score: 7, PlayerIDs: updated.Teams[match.TeamA].PlayerIDs}
	require.NoError(t, repo.Save(ctx, matchID, updated))

	rec, err := repo.Load(ctx, matchID)
	require.NoError(t, err)
	assert.Equal(t, 45, rec.Snapshot.Drive.BallPos)
	assert.Equal(t, 7, rec.Snapshot.Teams[match.TeamA].Score)

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1, "upsert must not create a second row")
}

func TestSnapshotRepository_LoadMissing(t *testing.T) {
	repo := setupSnapshotRepo(t)

	_, err := repo.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, postgres.ErrSnapshotNotFound)
}

func TestSnapshotRepository_Delete(t *testing.T) {
	repo := setupSnapshotRepo(t)
	ctx := context.Background()

	matchID := uuid.New()
	require.NoError(t, repo.Save(ctx, matchID, makeTestSnapshot(t, 3)))
	require.NoError(t, repo.Delete(ctx, matchID))

	_, err := repo.Load(ctx, matchID)
	assert.ErrorIs(t, err, postgres.ErrSnapshotNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, matchID), postgres.ErrSnapshotNotFound)
}

func TestSnapshotRepository_ListOrdersByUpdate(t *testing.T) {
	repo := setupSnapshotRepo(t)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, repo.Save(ctx, first, makeTestSnapshot(t, 4)))
	require.NoError(t, repo.Save(ctx, second, makeTestSnapshot(t, 5)))
	// Touch the first match so it becomes the most recently updated.
	require.NoError(t, repo.Save(ctx, first, makeTestSnapshot(t, 6)))

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, first, ids[0])
	assert.Equal(t, second, ids[1])
}
