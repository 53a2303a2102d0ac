package db

import "time"

// Role values accepted on profiles
const (
	RoleAffectedPerson = "affected-person"
	RoleVolunteer      = "volunteer"
	RoleCoordinator    = "coordinator"
)

// Camp types
const (
	CampTypeDefault        = "default"
	CampTypeVolunteerAdded = "volunteer-added"
)

// User represents an authenticated identity
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile holds the user-facing details captured at registration
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Contact      string    `json:"contact"`
	Address      string    `json:"address"`
	Needs        string    `json:"needs"`
	Skills       string    `json:"skills"`
	Availability string    `json:"availability"`
	Age          *int      `json:"age,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Account pairs a user with its profile
type Account struct {
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}

// Session is an explicit sign-in handle owned by the caller
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Account   *Account  `json:"account,omitempty"`
}

// Camp represents a shelter location
type Camp struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Beds          int       `json:"beds"`
	OriginalBeds  int       `json:"original_beds"`
	Resources     []string  `json:"resources"`
	Contact       string    `json:"contact"`
	Ambulance     string    `json:"ambulance"`
	Type          string    `json:"type"`
	AddedByUserID *string   `json:"added_by_user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsDefault reports whether the camp was seeded at start-up
func (c Camp) IsDefault() bool {
	return c.Type == CampTypeDefault
}

// CampListing is a camp annotated with the profile of the user who added it.
// AddedByUser is always nil for default camps.
type CampListing struct {
	Camp
	AddedByUser *Profile `json:"added_by_user"`
}

// CampSelection is a user's claim on one bed in one camp
type CampSelection struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CampID     string    `json:"camp_id"`
	SelectedAt time.Time `json:"selected_at"`
}

// CampSelectionWithCamp joins a selection with a snapshot of its camp
type CampSelectionWithCamp struct {
	CampSelection
	Camp *Camp `json:"camp"`
}

// VolunteerAssignment links a volunteer to a camp
// Schedule is an optional RRULE describing recurring shifts
type VolunteerAssignment struct {
	ID          string    `json:"id"`
	VolunteerID string    `json:"user_id"`
	CampID      string    `json:"camp_id"`
	Schedule    string    `json:"schedule,omitempty"`
	AssignedAt  time.Time `json:"assigned_at"`
}

// AssignmentWithCamp joins an assignment with the current camp snapshot
type AssignmentWithCamp struct {
	VolunteerAssignment
	Camp           *Camp       `json:"camp"`
	UpcomingShifts []time.Time `json:"upcoming_shifts,omitempty"`
}

// CampBoardRow represents one camp line of a published camp board snapshot
type CampBoardRow struct {
	SnapshotID   string `ssql_header:"snapshot_id" ssql_type:"uuid"`
	PublishedAt  string `ssql_header:"published_at" ssql_type:"datetime"`
	CampID       string `ssql_header:"camp_id" ssql_type:"text"`
	Name         string `ssql_header:"name" ssql_type:"text"`
	Beds         int    `ssql_header:"beds" ssql_type:"int"`
	OriginalBeds int    `ssql_header:"original_beds" ssql_type:"int"`
	Resources    string `ssql_header:"resources" ssql_type:"text"`
	Contact      string `ssql_header:"contact" ssql_type:"text"`
	Ambulance    string `ssql_header:"ambulance" ssql_type:"text"`
	Type         string `ssql_header:"type" ssql_type:"text"`
}

// TableName names the sheet holding published camp board snapshots
func (CampBoardRow) TableName() string {
	return "camp_board"
}
