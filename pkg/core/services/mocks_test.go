package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jakechorley/relief-camps/pkg/db"
)

// failingAuthStore returns a fixed error from every call
type failingAuthStore struct {
	err error
}

func (f *failingAuthStore) InsertAccount(ctx context.Context, account *db.Account) error {
	return f.err
}

func (f *failingAuthStore) GetAccountByEmail(ctx context.Context, email string) (*db.Account, error) {
	return nil, f.err
}

func (f *failingAuthStore) GetAccountByID(ctx context.Context, id string) (*db.Account, error) {
	return nil, f.err
}

func (f *failingAuthStore) InsertSession(ctx context.Context, session *db.Session) error {
	return f.err
}

func (f *failingAuthStore) GetSession(ctx context.Context, token string) (*db.Session, error) {
	return nil, f.err
}

func (f *failingAuthStore) DeleteSession(ctx context.Context, token string) error {
	return f.err
}

// recordingSelectionStore records calls and returns canned results
type recordingSelectionStore struct {
	selected  []*db.CampSelection
	cancelled []string
	current   *db.CampSelectionWithCamp
	err       error
}

func (r *recordingSelectionStore) SelectCamp(ctx context.Context, selection *db.CampSelection) error {
	r.selected = append(r.selected, selection)
	return r.err
}

func (r *recordingSelectionStore) CancelCampSelection(ctx context.Context, userID string) error {
	r.cancelled = append(r.cancelled, userID)
	return r.err
}

func (r *recordingSelectionStore) GetUserCampSelection(ctx context.Context, userID string) (*db.CampSelectionWithCamp, error) {
	return r.current, r.err
}

// mockMailer records sent emails
type mockMailer struct {
	sent []sentEmail
	err  error
}

type sentEmail struct {
	to, subject, body string
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

// mockSheetsClient keeps sheets in memory and returns cells as strings, like the Sheets API
type mockSheetsClient struct {
	sheets    map[string][][]interface{}
	appendErr error
	appends   int
}

func newMockSheetsClient() *mockSheetsClient {
	return &mockSheetsClient{sheets: make(map[string][][]interface{})}
}

func (m *mockSheetsClient) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	name, rng, _ := strings.Cut(sheetRange, "!")
	rows, ok := m.sheets[name]
	if !ok {
		return nil, fmt.Errorf("unknown sheet %s", name)
	}
	if rng != "" && len(rows) > 2 {
		rows = rows[:2]
	}

	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		out[i] = make([]interface{}, len(row))
		for j, cell := range row {
			out[i][j] = fmt.Sprint(cell)
		}
	}
	return out, nil
}

func (m *mockSheetsClient) AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appends++
	m.sheets[sheetRange] = append(m.sheets[sheetRange], values...)
	return nil
}

func (m *mockSheetsClient) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	m.sheets[sheetTitle] = nil
	return int64(len(m.sheets)), nil
}

func (m *mockSheetsClient) SheetTitles(spreadsheetID string) ([]string, error) {
	titles := make([]string, 0, len(m.sheets))
	for name := range m.sheets {
		titles = append(titles, name)
	}
	return titles, nil
}

var errBackend = errors.New("connection reset")
