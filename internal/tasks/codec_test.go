package tasks

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	in := []Task{
		{
			ID:          "6a1f",
			Title:       "File taxes",
			Description: "before April",
			CreatedAt:   time.Date(2025, 2, 1, 8, 30, 15, 0, time.UTC),
			DueDate:     DueAt(time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID:        "7b2e",
			Title:     "Water plants",
			Completed: true,
			CreatedAt: time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	data, err := encodeTasks(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"createdAt":"2025-02-01T08:30:15Z"`)
	assert.Contains(t, string(data), `"dueDate":"2025-04-15T00:00:00Z"`)
	assert.Equal(t, 1, strings.Count(string(data), "dueDate"), "absent due date is omitted")

	out, err := decodeTasks(data)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Title, out[i].Title)
		assert.Equal(t, in[i].Description, out[i].Description)
		assert.Equal(t, in[i].Completed, out[i].Completed)
		assert.True(t, in[i].CreatedAt.Equal(out[i].CreatedAt))
		assert.True(t, in[i].DueDate.Equal(out[i].DueDate))
	}
}

func TestCodec_EmptyCollection(t *testing.T) {
	data, err := encodeTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	out, err := decodeTasks(data)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCodec_RejectsInvalidDocuments(t *testing.T) {
	for _, doc := range []string{
		``,
		`{}`,
		`[{"id":"1","title":"a","completed":false,"createdAt":"2025-01-01T00:00:00Z","dueDate":"soon"}]`,
		`[{"id":"1","title":"","completed":false,"createdAt":"2025-01-01T00:00:00Z"}]`,
	} {
		_, err := decodeTasks([]byte(doc))
		assert.Error(t, err, "doc %q", doc)
	}
}
