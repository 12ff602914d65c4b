package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategos/internal/types"
)

func TestExtractDocumentBareObject(t *testing.T) {
	doc, err := ExtractDocument(`{"summary": "ok", "count": 2}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", doc["summary"])
	assert.Equal(t, float64(2), doc["count"])
}

func TestExtractDocumentStripsFences(t *testing.T) {
	input := "```json\n{\"summary\": \"fenced\"}\n```"
	doc, err := ExtractDocument(input)
	require.NoError(t, err)
	assert.Equal(t, "fenced", doc["summary"])
}

func TestExtractDocumentStripsBareFences(t *testing.T) {
	input := "```\n{\"summary\": \"fenced\"}\n```"
	doc, err := ExtractDocument(input)
	require.NoError(t, err)
	assert.Equal(t, "fenced", doc["summary"])
}

func TestExtractDocumentSurroundingProse(t *testing.T) {
	input := `Here is the plan you asked for:

{"summary": "embedded", "items": ["a"]}

Let me know if you need changes.`
	doc, err := ExtractDocument(input)
	require.NoError(t, err)
	assert.Equal(t, "embedded", doc["summary"])
}

func TestExtractDocumentRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "no json here", "{broken"} {
		_, err := ExtractDocument(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestCompactJSON(t *testing.T) {
	assert.Equal(t, "{}", CompactJSON(nil))
	assert.Equal(t, `{"a":1}`, CompactJSON(types.Document{"a": 1}))
}
