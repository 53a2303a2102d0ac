package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jakechorley/relief-camps/pkg/campdesk"
	"github.com/jakechorley/relief-camps/pkg/db"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// render prints a result. In JSON mode the envelope is printed as is; otherwise
// show is called with the data on success. A failed result is returned as an error.
func render[T any](app *AppContext, r campdesk.Result[T], show func(w io.Writer, data T)) error {
	if app.JSON {
		enc := json.NewEncoder(app.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return r.Err()
	}

	if !r.OK() {
		return fmt.Errorf("%s: %s", r.Error.Kind, r.Error.Message)
	}
	show(app.Out, r.Data)
	return nil
}

// bedColor shades a bed count by how much capacity is left
func bedColor(beds, original int) string {
	switch {
	case beds <= 0:
		return colorRed
	case original > 0 && beds*4 <= original:
		return colorYellow
	default:
		return colorGreen
	}
}

func printCampTable(w io.Writer, camps []db.CampListing) {
	if len(camps) == 0 {
		fmt.Fprintln(w, "No camps found.")
		return
	}

	nameWidth := 20
	for _, c := range camps {
		if len(c.Name) > nameWidth {
			nameWidth = len(c.Name)
		}
	}

	fmt.Fprintf(w, "\n%-36s  %-*s  %9s  %-9s  %s\n", "ID", nameWidth, "Name", "Beds", "Ambulance", "Added by")
	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
		strings.Repeat("-", 36), strings.Repeat("-", nameWidth), strings.Repeat("-", 9), strings.Repeat("-", 9), strings.Repeat("-", 12))

	for _, c := range camps {
		addedBy := colorDim + "default" + colorReset
		if c.AddedByUser != nil {
			addedBy = c.AddedByUser.Name
		} else if !c.IsDefault() {
			addedBy = "-"
		}
		beds := fmt.Sprintf("%4d/%-4d", c.Beds, c.OriginalBeds)
		fmt.Fprintf(w, "%-36s  %-*s  %s%s%s  %-9s  %s\n",
			c.ID, nameWidth, c.Name, bedColor(c.Beds, c.OriginalBeds), beds, colorReset, c.Ambulance, addedBy)
	}
	fmt.Fprintln(w)
}

func printCamp(w io.Writer, c *db.Camp) {
	fmt.Fprintf(w, "Camp:      %s (%s)\n", c.Name, c.ID)
	fmt.Fprintf(w, "Beds:      %d of %d\n", c.Beds, c.OriginalBeds)
	if len(c.Resources) > 0 {
		fmt.Fprintf(w, "Resources: %s\n", strings.Join(c.Resources, ", "))
	}
	if c.Contact != "" {
		fmt.Fprintf(w, "Contact:   %s\n", c.Contact)
	}
	if c.Ambulance != "" {
		fmt.Fprintf(w, "Ambulance: %s\n", c.Ambulance)
	}
}

func printAccount(w io.Writer, a *db.Account) {
	fmt.Fprintf(w, "User ID: %s\n", a.User.ID)
	fmt.Fprintf(w, "Email:   %s\n", a.User.Email)
	fmt.Fprintf(w, "Name:    %s\n", a.Profile.Name)
	fmt.Fprintf(w, "Role:    %s\n", a.Profile.Role)
}

func formatShift(t time.Time) string {
	return t.Local().Format("Mon 02 Jan 2006 15:04")
}

func formatEvent(ev db.ChangeEvent) string {
	return fmt.Sprintf("%s  %-14s  %-6s  %s", ev.At.Local().Format("15:04:05"), ev.Table, ev.Op, ev.RecordID)
}
