package route_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayline/wayline/internal/route"
)

func TestReadCSVRecords_HeaderKeyedRows(t *testing.T) {
	csv := "address,note\n台北車站,集合點\n台北101,\n"

	records, err := route.ReadCSVRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "台北車站", records[0]["address"])
	assert.Equal(t, "集合點", records[0]["note"])
	assert.Equal(t, "台北101", records[1]["address"])
	assert.Empty(t, records[1]["note"])
}

func TestReadCSVRecords_StripsUTF8BOM(t *testing.T) {
	csv := "\ufeffaddress,note\n台北車站,\n"

	records, err := route.ReadCSVRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "台北車站", records[0]["address"])
}

func TestReadCSVRecords_RaggedRows(t *testing.T) {
	// Short rows leave fields out; long rows drop cells past the header.
	csv := "address,note,start\n台北車站\n台北101,備註文字,true,extra\n"

	records, err := route.ReadCSVRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "台北車站", records[0]["address"])
	_, hasNote := records[0]["note"]
	assert.False(t, hasNote)

	assert.Equal(t, "台北101", records[1]["address"])
	assert.Equal(t, "備註文字", records[1]["note"])
	assert.Equal(t, "true", records[1]["start"])
}

func TestReadCSVRecords_TrimsLeadingSpace(t *testing.T) {
	csv := "address, note\n台北車站, 集合點\n"

	records, err := route.ReadCSVRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "集合點", records[0]["note"])
}

func TestReadCSVRecords_EmptyInput(t *testing.T) {
	_, err := route.ReadCSVRecords(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadCSVRecords_HeaderOnly(t *testing.T) {
	records, err := route.ReadCSVRecords(strings.NewReader("address,note\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}
