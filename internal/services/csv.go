package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"crud_api/internal/models"
	"crud_api/internal/utils"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvRecord struct {
	line   int
	fields []string
	header map[string]int
}

// get returns the trimmed value of column, or "" when the row is short.
func (r csvRecord) get(column string) string {
	idx, ok := r.header[column]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func (r csvRecord) blank() bool {
	for _, f := range r.fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// readCSV parses an uploaded file with a header row. Header names are
// matched case-insensitively; every name in required must be present.
func readCSV(content []byte, required []string) ([]csvRecord, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: file is not valid UTF-8", ErrInvalidCSV)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRow, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	header := make(map[string]int, len(headerRow))
	var names []string
	for i, name := range headerRow {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := header[key]; !dup {
			header[key] = i
		}
		names = append(names, key)
	}
	var missing []string
	for _, col := range required {
		if !utils.Contains(names, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required column(s): %s", ErrInvalidCSV, strings.Join(missing, ", "))
	}

	var records []csvRecord
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		line, _ := reader.FieldPos(0)
		rec := csvRecord{line: line, fields: fields, header: header}
		if rec.blank() {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type importCollector struct {
	uploadedAt time.Time
	imported   int
	skipped    []models.SkippedRow
}

func newImportCollector(now time.Time) *importCollector {
	return &importCollector{uploadedAt: now.UTC()}
}

func (c *importCollector) skip(line int, reason string) {
	c.skipped = append(c.skipped, models.SkippedRow{Row: line, Reason: reason})
}

func (c *importCollector) skipInvalid(line int, err error) {
	c.skip(line, strings.Join(utils.ValidationMessages(err), "; "))
}

func (c *importCollector) result(noun string) *models.ImportResult {
	sort.SliceStable(c.skipped, func(i, j int) bool { return c.skipped[i].Row < c.skipped[j].Row })
	skipped := c.skipped
	if skipped == nil {
		skipped = []models.SkippedRow{}
	}
	return &models.ImportResult{
		Message:       fmt.Sprintf("Successfully imported %d %s from CSV", c.imported, noun),
		ImportedCount: c.imported,
		SkippedCount:  len(skipped),
		Skipped:       skipped,
		UploadedAt:    c.uploadedAt,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatCSVTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
