package db

import "time"

// DefaultCamps returns the camps seeded at start-up when no others are configured
func DefaultCamps(now time.Time) []Camp {
	return []Camp{
		{
			ID:           "camp-1",
			Name:         "Community Hall",
			Beds:         50,
			OriginalBeds: 50,
			Resources:    []string{"Food", "Water", "Medical Aid", "Blankets"},
			Contact:      "+1-555-0101",
			Ambulance:    "Yes",
			Type:         CampTypeDefault,
			CreatedAt:    now,
		},
		{
			ID:           "camp-2",
			Name:         "Government High School",
			Beds:         75,
			OriginalBeds: 75,
			Resources:    []string{"Food", "Water", "Clothing", "Basic Medical"},
			Contact:      "+1-555-0102",
			Ambulance:    "Nearby",
			Type:         CampTypeDefault,
			CreatedAt:    now,
		},
		{
			ID:           "camp-3",
			Name:         "Sports Complex",
			Beds:         100,
			OriginalBeds: 100,
			Resources:    []string{"Food", "Water", "Medical Aid", "Blankets", "Clothing"},
			Contact:      "+1-555-0103",
			Ambulance:    "Yes",
			Type:         CampTypeDefault,
			CreatedAt:    now,
		},
	}
}
