package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// SelectCamp reserves one bed in a camp for a user
func SelectCamp(ctx context.Context, store db.SelectionStore, logger *zap.Logger, userID, campID string) (*db.CampSelection, error) {
	if userID == "" || campID == "" {
		return nil, db.NewError(db.KindInvalidInput, "user id and camp id are required")
	}

	selection := &db.CampSelection{
		ID:         uuid.New().String(),
		UserID:     userID,
		CampID:     campID,
		SelectedAt: time.Now().UTC(),
	}

	logger.Debug("Selecting camp", zap.String("user_id", userID), zap.String("camp_id", campID))

	if err := store.SelectCamp(ctx, selection); err != nil {
		return nil, fmt.Errorf("failed to select camp: %w", err)
	}

	logger.Info("Camp selected",
		zap.String("selection_id", selection.ID),
		zap.String("user_id", userID),
		zap.String("camp_id", campID))
	return selection, nil
}

// CancelCampSelection releases the user's reservation and returns its bed
func CancelCampSelection(ctx context.Context, store db.SelectionStore, logger *zap.Logger, userID string) error {
	if userID == "" {
		return db.NewError(db.KindInvalidInput, "user id is required")
	}

	if err := store.CancelCampSelection(ctx, userID); err != nil {
		return fmt.Errorf("failed to cancel camp selection: %w", err)
	}

	logger.Info("Camp selection cancelled", zap.String("user_id", userID))
	return nil
}

// GetUserCampSelection returns the user's reservation joined with its camp, or nil
func GetUserCampSelection(ctx context.Context, store db.SelectionStore, logger *zap.Logger, userID string) (*db.CampSelectionWithCamp, error) {
	if userID == "" {
		return nil, db.NewError(db.KindInvalidInput, "user id is required")
	}

	selection, err := store.GetUserCampSelection(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch camp selection: %w", err)
	}

	logger.Debug("Fetched camp selection", zap.String("user_id", userID), zap.Bool("found", selection != nil))
	return selection, nil
}
