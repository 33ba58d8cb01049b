// Package sheets imports tabular address data from shared Google Sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Importer errors.
var (
	// ErrNotConfigured is returned when no Sheets API key is configured.
	ErrNotConfigured = errors.New("sheets access not configured")

	// ErrInvalidLink is returned when a spreadsheet ID can't be extracted
	// from the link.
	ErrInvalidLink = errors.New("invalid spreadsheet link")

	// ErrEmptySheet is returned when the sheet has no data rows.
	ErrEmptySheet = errors.New("spreadsheet has no data rows")
)

// spreadsheetIDPattern extracts the document ID from a sharing link.
var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// fetchRange reads the first sheet's leading block; address sheets are small.
const fetchRange = "A1:Z1000"

// Importer fetches spreadsheet rows as records keyed by header-row column
// names, matching the shape of parsed CSV uploads.
type Importer struct {
	svc    *sheetsapi.Service
	logger zerolog.Logger
}

// NewImporter creates a new importer. An empty API key yields an
// unconfigured importer whose Fetch returns ErrNotConfigured.
func NewImporter(ctx context.Context, apiKey string, logger zerolog.Logger) (*Importer, error) {
	if apiKey == "" {
		return &Importer{logger: logger}, nil
	}

	svc, err := sheetsapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Importer{svc: svc, logger: logger}, nil
}

// Configured reports whether the importer can reach the Sheets API.
func (i *Importer) Configured() bool {
	return i.svc != nil
}

// SpreadsheetID extracts the document ID from a sharing link.
func SpreadsheetID(link string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(link)
	if m == nil {
		return "", ErrInvalidLink
	}
	return m[1], nil
}

// Fetch reads the first sheet of the linked spreadsheet and returns one
// record per data row, keyed by the header row's column names.
func (i *Importer) Fetch(ctx context.Context, link string) ([]map[string]string, error) {
	if !i.Configured() {
		return nil, ErrNotConfigured
	}

	id, err := SpreadsheetID(link)
	if err != nil {
		return nil, err
	}

	resp, err := i.svc.Spreadsheets.Values.Get(id, fetchRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet %s: %w", id, err)
	}

	if len(resp.Values) < 2 {
		return nil, ErrEmptySheet
	}

	header := make([]string, len(resp.Values[0]))
	for j, cell := range resp.Values[0] {
		header[j] = fmt.Sprint(cell)
	}

	records := make([]map[string]string, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		record := make(map[string]string, len(header))
		for j, cell := range row {
			if j >= len(header) || header[j] == "" {
				continue
			}
			record[header[j]] = fmt.Sprint(cell)
		}
		records = append(records, record)
	}

	i.logger.Debug().
		Str("spreadsheet_id", id).
		Int("rows", len(records)).
		Msg("imported spreadsheet rows")

	return records, nil
}
