package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersLessonRows(t *testing.T) {
	ds := Dataset{Headers: []string{"class", "subject", "teacher"}}
	ds.AddRow("6A", "MAT", "Bruno Costa")
	ds.AddRow("6A", "PORT")

	out, err := NewCSVExporter().Render(ds)
	require.NoError(t, err)
	assert.Equal(t, "class,subject,teacher\n6A,MAT,Bruno Costa\n6A,PORT,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}
