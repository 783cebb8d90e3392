package persistence

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tech5hu/helpdesk-ticket-system/internal/config"
	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
)

func newTestStore(t *testing.T) (*CSVStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "helpdesk.csv")
	store := NewCSVStore(config.StorageConfig{DataFile: path}, zap.NewNop())
	return store, path
}

func sampleTicket(id string) *domain.Ticket {
	return &domain.Ticket{
		ID:          id,
		Title:       "VPN keeps disconnecting",
		Description: "Drops every few minutes on the office network",
		Assignee:    "Ryan",
		Severity:    domain.SeverityMedium,
		Status:      domain.StatusOpen,
		Category:    domain.CategoryNetwork,
		SubmittedAt: time.Date(2026, 2, 25, 19, 30, 10, 0, time.Local),
		Comments: []domain.Comment{
			{
				Author:    "Olivia",
				Timestamp: time.Date(2026, 2, 26, 9, 15, 0, 0, time.Local),
				Content:   "Asked for router logs",
			},
			{
				Author:    "Ryan",
				Timestamp: time.Date(2026, 2, 26, 11, 0, 5, 0, time.Local),
				Content:   "Logs attached",
			},
		},
	}
}

func TestLoadAllMissingFile(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	tickets, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestSaveAllLoadAllRoundTrip(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	original := []*domain.Ticket{sampleTicket("101"), sampleTicket("102")}
	original[1].Comments = nil
	original[1].Status = domain.StatusClosed

	require.NoError(t, store.SaveAll(original))
	require.FileExists(t, path)

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "101", loaded[0].ID)
	assert.Equal(t, original[0].Title, loaded[0].Title)
	assert.Equal(t, original[0].Description, loaded[0].Description)
	assert.Equal(t, original[0].Assignee, loaded[0].Assignee)
	assert.Equal(t, original[0].Severity, loaded[0].Severity)
	assert.Equal(t, original[0].Status, loaded[0].Status)
	assert.Equal(t, original[0].Category, loaded[0].Category)
	assert.True(t, original[0].SubmittedAt.Equal(loaded[0].SubmittedAt))

	require.Len(t, loaded[0].Comments, 2)
	for i, comment := range loaded[0].Comments {
		assert.Equal(t, original[0].Comments[i].Author, comment.Author)
		assert.Equal(t, original[0].Comments[i].Content, comment.Content)
		assert.True(t, original[0].Comments[i].Timestamp.Equal(comment.Timestamp))
	}

	assert.Equal(t, "102", loaded[1].ID)
	assert.Equal(t, domain.StatusClosed, loaded[1].Status)
	assert.Empty(t, loaded[1].Comments)
}

func TestSaveAllCreatesParentDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "helpdesk.csv")
	store := NewCSVStore(config.StorageConfig{DataFile: path}, zap.NewNop())
	require.NoError(t, store.SaveAll([]*domain.Ticket{sampleTicket("101")}))
	require.FileExists(t, path)
}

func TestSaveAllLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	require.NoError(t, store.SaveAll([]*domain.Ticket{sampleTicket("101")}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func writeRows(t *testing.T, path string, rows [][]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := csv.NewWriter(f)
	require.NoError(t, w.Write(columns))
	require.NoError(t, w.WriteAll(rows))
}

func TestLoadAllSkipsInvalidRows(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	valid := []string{"101", "Printer broken", "No toner", "Jacob", "Low", "Open", "Hardware", "01/03/2026 10:00:00", "[]"}
	rows := [][]string{
		{"abc", "Bad ID", "desc", "Jacob", "Low", "Open", "Hardware", "01/03/2026 10:00:00", "[]"},
		valid,
		{"101", "Duplicate", "desc", "Jacob", "Low", "Open", "Hardware", "01/03/2026 10:00:00", "[]"},
		{"102", "", "missing title", "Jacob", "Low", "Open", "Hardware", "01/03/2026 10:00:00", "[]"},
		{"103", "Bad severity", "desc", "Jacob", "Urgent", "Open", "Hardware", "01/03/2026 10:00:00", "[]"},
		{"104", "Bad status", "desc", "Jacob", "Low", "Done", "Hardware", "01/03/2026 10:00:00", "[]"},
	}
	writeRows(t, path, rows)

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "101", loaded[0].ID)
	assert.Equal(t, "Printer broken", loaded[0].Title)
}

func TestLoadAllBadCommentsCellKeepsRow(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	writeRows(t, path, [][]string{
		{"101", "Printer broken", "No toner", "Jacob", "Low", "Open", "Hardware", "01/03/2026 10:00:00", "{not json"},
	})

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Empty(t, loaded[0].Comments)
}

func TestLoadAllPreservesFileOrder(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	writeRows(t, path, [][]string{
		{"300", "Third", "d", "Jacob", "Low", "Open", "Hardware", "01/03/2026 10:00:00", "[]"},
		{"100", "First", "d", "Jacob", "Low", "Open", "Hardware", "01/03/2026 10:00:00", "[]"},
		{"200", "Second", "d", "Jacob", "Low", "Open", "Hardware", "01/03/2026 10:00:00", "[]"},
	})

	loaded, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	ids := []string{loaded[0].ID, loaded[1].ID, loaded[2].ID}
	assert.Equal(t, []string{"300", "100", "200"}, ids)
}

func TestCommentsCellIsEmbeddedJSON(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	require.NoError(t, store.SaveAll([]*domain.Ticket{sampleTicket("101")}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.HasPrefix(content, strings.Join(columns, ",")))
	// the JSON cell is CSV-quoted, so inner quotes are doubled
	assert.Contains(t, content, `""Author"":""Olivia""`)
	assert.Contains(t, content, `""Date"":""26/02/2026""`)
	assert.Contains(t, content, `""Time"":""09:15:00""`)
}
