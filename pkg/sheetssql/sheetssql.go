package sheetssql

import (
	"fmt"
)

// SheetsClient defines the spreadsheet operations the table layer needs
type SheetsClient interface {
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
	AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error
	CreateSheet(spreadsheetID, sheetTitle string) (int64, error)
	SheetTitles(spreadsheetID string) ([]string, error)
}

// Column defines a column with name and type
type Column struct {
	Name string
	Type string // e.g., "text", "datetime", "int", "bool", "uuid"
}

// TableSchema defines the structure of a table
type TableSchema struct {
	Name    string
	Columns []Column
}

// Schema defines the set of tables kept in one spreadsheet
type Schema struct {
	Tables []TableSchema
}

// DB treats each tab of a spreadsheet as an append-only table whose first two
// rows hold column names and types
type DB struct {
	client        SheetsClient
	spreadsheetID string
	schema        *Schema
}

// NewDB opens a spreadsheet and creates or verifies every table in schema
func NewDB(client SheetsClient, spreadsheetID string, schema *Schema) (*DB, error) {
	db := &DB{
		client:        client,
		spreadsheetID: spreadsheetID,
		schema:        schema,
	}

	if err := db.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// SpreadsheetID returns the spreadsheet backing the DB
func (db *DB) SpreadsheetID() string {
	return db.spreadsheetID
}

// InsertRows appends rows to the specified table
func (db *DB) InsertRows(tableName string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	return db.client.AppendRows(db.spreadsheetID, tableName, rows)
}
