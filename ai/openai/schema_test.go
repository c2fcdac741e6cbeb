package openai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt_EmbedsResponseSchema(t *testing.T) {
	prompt := buildSystemPrompt()

	idx := strings.Index(prompt, "{")
	require.GreaterOrEqual(t, idx, 0, "prompt should carry the schema")

	var embedded map[string]any
	require.NoError(t, json.Unmarshal([]byte(prompt[idx:]), &embedded))

	sent, err := json.Marshal(enrichmentResponseFormat.JSONSchema.Schema)
	require.NoError(t, err)
	var contract map[string]any
	require.NoError(t, json.Unmarshal(sent, &contract))

	assert.Equal(t, contract, embedded)
	assert.Equal(t, false, embedded["additionalProperties"])
	assert.ElementsMatch(t, []any{"tl_dr", "tags", "key_terms", "quotes"}, embedded["required"])

	properties, ok := embedded["properties"].(map[string]any)
	require.True(t, ok)
	quotes, ok := properties["quotes"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, quotes["description"], "Up to 2")
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt([]byte(`{"pmid":"1"}`))
	assert.Equal(t, "Here is an article object:\n{\"pmid\":\"1\"}\nReturn ONLY the enriched JSON.", prompt)
}
