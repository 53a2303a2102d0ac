package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
		wantErr  bool
	}{
		{"simple", "selectCamp camp-1", []string{"selectCamp", "camp-1"}, false},
		{"double quotes", `createCamp "Mosque Hall" --beds 10`, []string{"createCamp", "Mosque Hall", "--beds", "10"}, false},
		{"single quotes", `assignVolunteer v1 camp-1 --schedule 'FREQ=WEEKLY;BYDAY=SU'`, []string{"assignVolunteer", "v1", "camp-1", "--schedule", "FREQ=WEEKLY;BYDAY=SU"}, false},
		{"extra spaces", "  listCamps   ", []string{"listCamps"}, false},
		{"unclosed quote", `createCamp "Mosque Hall`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestRunInteractive_ReservationSession(t *testing.T) {
	app, out := newTestApp(t)

	root := &cobra.Command{Use: "cli"}
	root.AddCommand(
		SignUpCmd(app),
		WhoAmICmd(app),
		ListCampsCmd(app),
		CreateCampCmd(app),
		SelectCampCmd(app),
		MySelectionCmd(app),
		CancelSelectionCmd(app),
		AssignVolunteerCmd(app),
		ListAssignmentsCmd(app),
		SignOutCmd(app),
		InteractiveCmd(app),
	)

	script := strings.Join([]string{
		`mySelection`,
		`signUp amir@x.com secret1 --name "Amir K" --role volunteer`,
		`whoami`,
		`selectCamp camp-2`,
		`selectCamp camp-3`,
		`mySelection`,
		`createCamp "Mosque Hall" --beds 3 --resources Food,Water`,
		`assignVolunteer someone camp-1 --schedule 'FREQ=WEEKLY;BYDAY=SU'`,
		`listAssignments someone`,
		`cancelSelection`,
		`bogus`,
		`signOut`,
		`whoami`,
		`exit`,
		`listCamps`,
	}, "\n")

	require.NoError(t, runInteractive(app, root, strings.NewReader(script)))
	output := out.String()

	assert.Contains(t, output, "Error: not signed in")
	assert.Contains(t, output, "Signed up and signed in")
	assert.Contains(t, output, "Name:    Amir K")
	assert.Contains(t, output, "Bed reserved in camp camp-2")
	assert.Contains(t, output, "AlreadyReserved: you already have a camp selected")
	assert.Contains(t, output, "Beds:      74 of 75")
	assert.Contains(t, output, "Camp created")
	assert.Contains(t, output, "Resources: Food, Water")
	assert.Contains(t, output, "Volunteer someone assigned to camp camp-1")
	assert.Contains(t, output, "Schedule: FREQ=WEEKLY;BYDAY=SU")
	assert.Contains(t, output, "Reservation cancelled")
	assert.Contains(t, output, "Unknown command: bogus")
	assert.Contains(t, output, "Signed out")
	assert.Contains(t, output, "Not signed in.")
	assert.Contains(t, output, "Goodbye!")

	// listCamps after exit never runs
	assert.NotContains(t, output, "Sports Complex")

	camps, err := app.Database.GetCamps(app.Ctx)
	require.NoError(t, err)
	require.Len(t, camps, 4)
	assert.Equal(t, 75, camps[1].Beds)
	require.NotNil(t, camps[3].AddedByUser)
	assert.Equal(t, "Amir K", camps[3].AddedByUser.Name)
}
