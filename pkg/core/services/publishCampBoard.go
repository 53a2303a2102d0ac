package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
	"github.com/jakechorley/relief-camps/pkg/sheetssql"
)

// CampBoardResult describes a camp board publish
type CampBoardResult struct {
	SnapshotID  string
	PublishedAt time.Time
	Rows        []db.CampBoardRow
	// Skipped is set when the latest published snapshot already matched
	Skipped bool
}

// PublishCampBoard appends a snapshot of every camp to the camp board sheet.
// Nothing is written when the bed counts match the latest snapshot.
func PublishCampBoard(ctx context.Context, store db.CampStore, board *sheetssql.DB, logger *zap.Logger) (*CampBoardResult, error) {
	logger.Debug("Publishing camp board", zap.String("spreadsheet_id", board.SpreadsheetID()))

	camps, err := store.GetCamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch camps: %w", err)
	}

	published, err := sheetssql.GetTableAs[db.CampBoardRow](board)
	if err != nil {
		return nil, fmt.Errorf("failed to read camp board: %w", err)
	}

	latest := latestSnapshot(published)
	if len(latest) > 0 && sameBeds(latest, camps) {
		logger.Info("Camp board unchanged, skipping publish",
			zap.String("snapshot_id", latest[0].SnapshotID),
			zap.Int("camps", len(camps)))
		return &CampBoardResult{
			SnapshotID: latest[0].SnapshotID,
			Rows:       latest,
			Skipped:    true,
		}, nil
	}

	now := time.Now().UTC()
	snapshotID := uuid.New().String()
	rows := make([]db.CampBoardRow, 0, len(camps))
	for _, c := range camps {
		rows = append(rows, db.CampBoardRow{
			SnapshotID:   snapshotID,
			PublishedAt:  now.Format(time.RFC3339),
			CampID:       c.ID,
			Name:         c.Name,
			Beds:         c.Beds,
			OriginalBeds: c.OriginalBeds,
			Resources:    strings.Join(c.Resources, ", "),
			Contact:      c.Contact,
			Ambulance:    c.Ambulance,
			Type:         c.Type,
		})
	}

	if err := sheetssql.InsertModels(board, rows); err != nil {
		return nil, fmt.Errorf("failed to write camp board: %w", err)
	}

	logger.Info("Camp board published", zap.String("snapshot_id", snapshotID), zap.Int("camps", len(rows)))

	return &CampBoardResult{
		SnapshotID:  snapshotID,
		PublishedAt: now,
		Rows:        rows,
	}, nil
}

// latestSnapshot returns the rows of the most recently published snapshot.
// PublishedAt is RFC3339 in UTC so it orders lexically; rows appended later win ties.
func latestSnapshot(rows []db.CampBoardRow) []db.CampBoardRow {
	var latestID, latestAt string
	for _, r := range rows {
		if r.PublishedAt != "" && r.PublishedAt >= latestAt {
			latestID, latestAt = r.SnapshotID, r.PublishedAt
		}
	}
	if latestID == "" {
		return nil
	}

	var snapshot []db.CampBoardRow
	for _, r := range rows {
		if r.SnapshotID == latestID {
			snapshot = append(snapshot, r)
		}
	}
	return snapshot
}

func sameBeds(snapshot []db.CampBoardRow, camps []db.CampListing) bool {
	if len(snapshot) != len(camps) {
		return false
	}
	beds := make(map[string]int, len(snapshot))
	for _, r := range snapshot {
		beds[r.CampID] = r.Beds
	}
	for _, c := range camps {
		b, ok := beds[c.ID]
		if !ok || b != c.Beds {
			return false
		}
	}
	return true
}
