package route

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSVRecords parses CSV data into one record per data row, keyed by the
// header row's column names. Rows may be ragged; cells beyond the header are
// dropped. A leading UTF-8 BOM on the header is stripped.
func ReadCSVRecords(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("csv data is empty")
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		record := make(map[string]string, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			record[header[i]] = cell
		}
		records = append(records, record)
	}

	return records, nil
}
