package persistence

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/tech5hu/helpdesk-ticket-system/internal/config"
	"github.com/tech5hu/helpdesk-ticket-system/internal/domain"
)

// Column order of the persisted table. The submission timestamp is a single
// combined column; the two-column date/time variant is not supported.
var columns = []string{
	domain.FieldID,
	domain.FieldTitle,
	domain.FieldDescription,
	domain.FieldAssignee,
	domain.FieldSeverity,
	domain.FieldStatus,
	domain.FieldCategory,
	"Submission DateTime",
	"Comments",
}

const (
	dateTimeLayout = "02/01/2006 15:04:05"
	dateLayout     = "02/01/2006"
	timeLayout     = "15:04:05"
)

// requiredColumns must be present and non-blank for a row to load.
var requiredColumns = []string{
	domain.FieldTitle,
	domain.FieldDescription,
	domain.FieldAssignee,
	domain.FieldSeverity,
	domain.FieldStatus,
	domain.FieldCategory,
	"Submission DateTime",
}

// commentRecord is the embedded JSON shape of one comment inside the
// Comments cell.
type commentRecord struct {
	Author  string `json:"Author"`
	Date    string `json:"Date"`
	Time    string `json:"Time"`
	Content string `json:"Content"`
}

// CSVStore reads and writes the full ticket table as a CSV file.
type CSVStore struct {
	path   string
	logger *zap.Logger
}

// NewCSVStore creates the codec for the configured data file.
func NewCSVStore(cfg config.StorageConfig, logger *zap.Logger) *CSVStore {
	return &CSVStore{path: cfg.DataFile, logger: logger}
}

// LoadAll reads every valid row from the backing file, in file order. A
// missing file is not an error; it yields an empty slice. Rows that fail
// validation are logged and skipped, never aborting the load.
func (s *CSVStore) LoadAll() ([]*domain.Ticket, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("no data file found, starting empty", zap.String("path", s.path))
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var tickets []*domain.Ticket
	seen := make(map[string]struct{})
	for rowNum, record := range records[1:] {
		row := make(map[string]string, len(index))
		for name, i := range index {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		ticket, ok := s.decodeRow(row, seen, rowNum+2)
		if !ok {
			continue
		}
		seen[ticket.ID] = struct{}{}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// decodeRow applies the validation chain in order: ID shape, duplicate
// within file, required fields, severity, status. Any failure rejects the
// row with a log entry.
func (s *CSVStore) decodeRow(row map[string]string, seen map[string]struct{}, rowNum int) (*domain.Ticket, bool) {
	id := row[domain.FieldID]
	if !domain.IsValidID(id) {
		s.logger.Warn("invalid or missing ID, row skipped", zap.Int("row", rowNum), zap.String("id", id))
		return nil, false
	}
	if _, dup := seen[id]; dup {
		s.logger.Warn("duplicate ID, row skipped", zap.Int("row", rowNum), zap.String("id", id))
		return nil, false
	}
	if missing := domain.MissingFields(row, requiredColumns); len(missing) > 0 {
		s.logger.Warn("missing fields, row skipped", zap.String("id", id), zap.Strings("fields", missing))
		return nil, false
	}
	severity, ok := domain.ParseSeverity(row[domain.FieldSeverity])
	if !ok {
		s.logger.Warn("invalid severity, row skipped", zap.String("id", id), zap.String("severity", row[domain.FieldSeverity]))
		return nil, false
	}
	status, ok := domain.ParseStatus(row[domain.FieldStatus])
	if !ok {
		s.logger.Warn("invalid status, row skipped", zap.String("id", id), zap.String("status", row[domain.FieldStatus]))
		return nil, false
	}

	category, ok := domain.ParseCategory(row[domain.FieldCategory])
	if !ok {
		category = domain.CategorySoftware
	}
	submittedAt, err := time.ParseInLocation(dateTimeLayout, row["Submission DateTime"], time.Local)
	if err != nil {
		submittedAt = time.Time{}
	}

	return &domain.Ticket{
		ID:          id,
		Title:       row[domain.FieldTitle],
		Description: row[domain.FieldDescription],
		Assignee:    row[domain.FieldAssignee],
		Severity:    severity,
		Status:      status,
		Category:    category,
		SubmittedAt: submittedAt,
		Comments:    decodeComments(row["Comments"]),
	}, true
}

// decodeComments parses the embedded JSON comment log. A decode failure
// yields an empty log rather than rejecting the row.
func decodeComments(cell string) []domain.Comment {
	if cell == "" {
		return nil
	}
	var records []commentRecord
	if err := json.Unmarshal([]byte(cell), &records); err != nil {
		return nil
	}
	comments := make([]domain.Comment, 0, len(records))
	for _, r := range records {
		ts, err := time.ParseInLocation(dateTimeLayout, r.Date+" "+r.Time, time.Local)
		if err != nil {
			ts = time.Time{}
		}
		comments = append(comments, domain.Comment{
			Author:    r.Author,
			Timestamp: ts,
			Content:   r.Content,
		})
	}
	return comments
}

// SaveAll rewrites the backing file with every ticket, in the given order.
// The write goes to a temporary file in the target directory and is renamed
// over the target, so a concurrent reader never observes a partial table.
func (s *CSVStore) SaveAll(tickets []*domain.Ticket) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(columns); err != nil {
		tmp.Close()
		return err
	}
	for _, ticket := range tickets {
		record, err := encodeRow(ticket)
		if err != nil {
			tmp.Close()
			return err
		}
		if err := writer.Write(record); err != nil {
			tmp.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

func encodeRow(t *domain.Ticket) ([]string, error) {
	records := make([]commentRecord, 0, len(t.Comments))
	for _, c := range t.Comments {
		records = append(records, commentRecord{
			Author:  c.Author,
			Date:    c.Timestamp.Format(dateLayout),
			Time:    c.Timestamp.Format(timeLayout),
			Content: c.Content,
		})
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	return []string{
		t.ID,
		t.Title,
		t.Description,
		t.Assignee,
		string(t.Severity),
		string(t.Status),
		string(t.Category),
		t.SubmittedAt.Format(dateTimeLayout),
		string(encoded),
	}, nil
}
