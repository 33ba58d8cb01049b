package sheets_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/internal/sheets"
)

func TestSpreadsheetID(t *testing.T) {
	tests := []struct {
		name string
		link string
		id   string
		err  error
	}{
		{
			name: "sharing link",
			link: "https://docs.google.com/spreadsheets/d/1AbC-dEf_123/edit?usp=sharing",
			id:   "1AbC-dEf_123",
		},
		{
			name: "bare link",
			link: "https://docs.google.com/spreadsheets/d/abc123",
			id:   "abc123",
		},
		{
			name: "link with gid fragment",
			link: "https://docs.google.com/spreadsheets/d/xyz_789/edit#gid=0",
			id:   "xyz_789",
		},
		{
			name: "not a sheet link",
			link: "https://docs.google.com/document/d/abc123/edit",
			err:  sheets.ErrInvalidLink,
		},
		{
			name: "empty",
			link: "",
			err:  sheets.ErrInvalidLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := sheets.SpreadsheetID(tt.link)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestImporter_Unconfigured(t *testing.T) {
	importer, err := sheets.NewImporter(context.Background(), "", zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, importer.Configured())

	_, err = importer.Fetch(context.Background(),
		"https://docs.google.com/spreadsheets/d/abc123/edit")
	assert.ErrorIs(t, err, sheets.ErrNotConfigured)
}
