package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Day", "Slot", "Subject"},
		Rows: []map[string]string{
			{"Day": "Monday", "Slot": "9:00-10:00", "Subject": "Math"},
			{"Day": "Tuesday", "Slot": "10:00-11:00", "Subject": "Physics, Lab"},
		},
		Notes: []string{"Optimization score: 72.4"},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Day,Slot,Subject\nMonday,9:00-10:00,Math\nTuesday,10:00-11:00,\"Physics, Lab\"\n", string(out))
}

func TestCSVExporterCustomDelimiter(t *testing.T) {
	out, err := NewCSVExporterWithDelimiter(';').Render(sampleDataset())
	require.NoError(t, err)
	assert.Contains(t, string(out), "Tuesday;10:00-11:00;Physics, Lab")
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "empty")
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	for _, exporter := range []*PDFExporter{NewPDFExporter(), NewPortraitPDFExporter()} {
		out, err := exporter.Render(sampleDataset(), "Timetable Option 1")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	}
}
