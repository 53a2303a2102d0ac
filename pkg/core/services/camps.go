package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/relief-camps/internal/config"
	"github.com/jakechorley/relief-camps/pkg/db"
)

// CampFields are the details supplied when a volunteer adds a camp
type CampFields struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Beds      int      `json:"beds" validate:"min=0"`
	Resources []string `json:"resources" validate:"dive,required"`
	Contact   string   `json:"contact"`
	Ambulance string   `json:"ambulance" validate:"omitempty,oneof=Yes No Nearby"`
}

// ListCamps returns every camp in creation order with creator annotations
func ListCamps(ctx context.Context, store db.CampStore, logger *zap.Logger) ([]db.CampListing, error) {
	camps, err := store.GetCamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch camps: %w", err)
	}
	logger.Debug("Fetched camps", zap.Int("count", len(camps)))
	return camps, nil
}

// CreateCamp adds a volunteer camp. Its starting bed count becomes its capacity.
func CreateCamp(ctx context.Context, store db.CampStore, logger *zap.Logger, fields CampFields, userID string) (*db.CampListing, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if err := validate.Struct(fields); err != nil {
		return nil, invalidInput(err)
	}

	camp := &db.Camp{
		ID:           uuid.New().String(),
		Name:         fields.Name,
		Beds:         fields.Beds,
		OriginalBeds: fields.Beds,
		Resources:    append([]string{}, fields.Resources...),
		Contact:      fields.Contact,
		Ambulance:    fields.Ambulance,
		Type:         db.CampTypeVolunteerAdded,
		CreatedAt:    time.Now().UTC(),
	}
	if userID != "" {
		camp.AddedByUserID = &userID
	}

	logger.Debug("Creating camp", zap.String("id", camp.ID), zap.String("name", camp.Name), zap.Int("beds", camp.Beds))

	listing, err := store.InsertCamp(ctx, camp)
	if err != nil {
		return nil, fmt.Errorf("failed to create camp: %w", err)
	}

	logger.Info("Camp created", zap.String("camp_id", camp.ID), zap.String("added_by", userID))
	return listing, nil
}

// DeleteCamp removes a volunteer-added camp along with its reservations
func DeleteCamp(ctx context.Context, store db.CampStore, logger *zap.Logger, campID string) error {
	if err := store.DeleteCamp(ctx, campID); err != nil {
		return fmt.Errorf("failed to delete camp: %w", err)
	}
	logger.Info("Camp deleted", zap.String("camp_id", campID))
	return nil
}

// SeedFromConfig converts configured camps to default camps. An empty list
// yields the built-in defaults.
func SeedFromConfig(seeds []config.CampSeed, now time.Time) []db.Camp {
	if len(seeds) == 0 {
		return db.DefaultCamps(now)
	}

	camps := make([]db.Camp, 0, len(seeds))
	for i, s := range seeds {
		camps = append(camps, db.Camp{
			ID:           s.ID,
			Name:         s.Name,
			Beds:         s.Beds,
			OriginalBeds: s.Beds,
			Resources:    append([]string{}, s.Resources...),
			Contact:      s.Contact,
			Ambulance:    s.Ambulance,
			Type:         db.CampTypeDefault,
			// Keep configured order stable under created_at ordering
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}
	return camps
}

