package openai

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/litenrich/ai"
	"github.com/poiesic/litenrich/core"
	"github.com/tmc/langchaingo/llms/openai"
)

const systemPrompt = `You enrich research articles with summaries, tags, key terms, and quotes.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, or markdown fences. Your output must exactly follow this schema:

%s`

const userPromptTemplate = "Here is an article object:\n%s\nReturn ONLY the enriched JSON."

// buildSystemPrompt creates the system prompt with the output schema
// embedded. The schema text is rendered from enrichmentResponseFormat.
func buildSystemPrompt() string {
	return fmt.Sprintf(systemPrompt, enrichmentSchemaText)
}

// buildUserPrompt embeds the JSON article payload in the user message.
func buildUserPrompt(payload []byte) string {
	return fmt.Sprintf(userPromptTemplate, payload)
}

func stringArray(description string) *openai.ResponseFormatJSONSchemaProperty {
	return &openai.ResponseFormatJSONSchemaProperty{
		Type:        "array",
		Description: description,
		Items:       &openai.ResponseFormatJSONSchemaProperty{Type: "string"},
	}
}

// enrichmentResponseFormat is the strict structured-output contract sent
// with every extraction request. The quotes cap is enforced again when the
// response is parsed.
var enrichmentResponseFormat = &openai.ResponseFormat{
	Type: "json_schema",
	JSONSchema: &openai.ResponseFormatJSONSchema{
		Name:   ai.EnrichmentSchemaName,
		Strict: true,
		Schema: &openai.ResponseFormatJSONSchemaProperty{
			Type: "object",
			Properties: map[string]*openai.ResponseFormatJSONSchemaProperty{
				"tl_dr": {
					Type:        "string",
					Description: "One-sentence plain-language summary of the article",
				},
				"tags":      stringArray("Freeform tags (3-5 recommended)"),
				"key_terms": stringArray("3-5 important phrases from the abstract"),
				"quotes":    stringArray(fmt.Sprintf("Up to %d short verbatim snippets from the abstract", core.MaxQuotes)),
			},
			Required:             []string{"tl_dr", "tags", "key_terms", "quotes"},
			AdditionalProperties: false,
		},
	},
}

var enrichmentSchemaText = mustMarshalSchema(enrichmentResponseFormat.JSONSchema.Schema)

func mustMarshalSchema(schema *openai.ResponseFormatJSONSchemaProperty) string {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("openai: marshal enrichment schema: %v", err))
	}
	return string(data)
}
