package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{Headers: []string{"Job Title", "Service Charge"}}
	data.AddRow("Welder", "1,500.00")

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Welder,"1,500.00"`, lines[1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{
		Headers: []string{"Job Title", "Country"},
		Rows:    []map[string]string{{"Job Title": "Welder", "Country": "Qatar"}},
	}, "Jobs")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRenderSheet(t *testing.T) {
	out, err := NewPDFExporter().RenderSheet("Client Form", []Section{
		{Title: "Personal Details", Fields: []Field{{Label: "Full Name", Value: "Asha Rao"}, {Label: "Email"}}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().RenderSheet("empty", nil)
	assert.Error(t, err)
}
