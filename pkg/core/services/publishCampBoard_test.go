package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
	"github.com/jakechorley/relief-camps/pkg/sheetssql"
)

func newBoard(t *testing.T, client *mockSheetsClient) *sheetssql.DB {
	t.Helper()
	schema, err := sheetssql.SchemaFromModels(db.CampBoardRow{})
	require.NoError(t, err)
	board, err := sheetssql.NewDB(client, "sheet-id", schema)
	require.NoError(t, err)
	return board
}

func TestPublishCampBoard(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	client := newMockSheetsClient()
	board := newBoard(t, client)

	result, err := PublishCampBoard(ctx, store, board, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "camp-1", result.Rows[0].CampID)
	assert.Equal(t, "Food, Water, Medical Aid, Blankets", result.Rows[0].Resources)

	// header + type rows, then one row per camp
	require.Len(t, client.sheets["camp_board"], 5)

	published, err := sheetssql.GetTableAs[db.CampBoardRow](board)
	require.NoError(t, err)
	require.Len(t, published, 3)
	assert.Equal(t, result.SnapshotID, published[2].SnapshotID)
	assert.Equal(t, 100, published[2].Beds)
}

func TestPublishCampBoard_SkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	client := newMockSheetsClient()
	board := newBoard(t, client)

	first, err := PublishCampBoard(ctx, store, board, zap.NewNop())
	require.NoError(t, err)

	second, err := PublishCampBoard(ctx, store, board, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.SnapshotID, second.SnapshotID)
	assert.Len(t, client.sheets["camp_board"], 5)

	_, err = SelectCamp(ctx, store, zap.NewNop(), "alice", "camp-3")
	require.NoError(t, err)

	third, err := PublishCampBoard(ctx, store, board, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, third.Skipped)
	assert.NotEqual(t, first.SnapshotID, third.SnapshotID)
	assert.Equal(t, 99, third.Rows[2].Beds)
	assert.Len(t, client.sheets["camp_board"], 8)

	fourth, err := PublishCampBoard(ctx, store, board, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, fourth.Skipped)
	assert.Equal(t, third.SnapshotID, fourth.SnapshotID)
}

func TestPublishCampBoard_WriteFailure(t *testing.T) {
	client := newMockSheetsClient()
	board := newBoard(t, client)
	client.appendErr = errBackend

	_, err := PublishCampBoard(context.Background(), seededStore(t), board, zap.NewNop())
	assert.ErrorIs(t, err, errBackend)
}

func TestLatestSnapshot(t *testing.T) {
	rows := []db.CampBoardRow{
		{SnapshotID: "s1", PublishedAt: "2025-01-05T09:00:00Z", CampID: "a"},
		{SnapshotID: "s2", PublishedAt: "2025-01-06T09:00:00Z", CampID: "a"},
		{SnapshotID: "s2", PublishedAt: "2025-01-06T09:00:00Z", CampID: "b"},
		{SnapshotID: "s3", PublishedAt: "2025-01-06T09:00:00Z", CampID: "a"},
	}

	latest := latestSnapshot(rows)
	require.Len(t, latest, 1)
	assert.Equal(t, "s3", latest[0].SnapshotID)

	assert.Nil(t, latestSnapshot(nil))
}
