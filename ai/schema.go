package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// AnalysisSchema is the JSON Schema model output must satisfy. Every field is
// optional; missing fields take the defaults from Analysis.WithDefaults.
const AnalysisSchema = `{
  "type": "object",
  "properties": {
    "tags":            {"type": "array", "items": {"type": "string"}},
    "techStack":       {"type": "array", "items": {"type": "string"}},
    "summary":         {"type": "string"},
    "approach":        {"type": "array", "items": {"type": "string"}},
    "difficultyLevel": {"type": "string", "enum": ["easy", "medium", "hard"]}
  }
}`

var analysisSchema = mustCompileSchema(AnalysisSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("ai: invalid analysis schema: %v", err))
	}
	return schema
}

// ParseAnalysis validates raw model output and converts it into a Result.
//
// Output that is not a JSON object, or that violates AnalysisSchema after
// normalization, becomes a Failed result naming the offending fields.
// Normalization lowercases difficultyLevel and tags, trims strings, drops
// blank tags and treats null fields as missing.
func ParseAnalysis(raw string) Result {
	var decoded any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return Failed(fmt.Sprintf("malformed analysis: %v", err))
	}
	doc, ok := decoded.(map[string]any)
	if !ok {
		return Failed("malformed analysis: expected a JSON object")
	}

	normalizeAnalysisDoc(doc)

	result, err := analysisSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Failed(fmt.Sprintf("malformed analysis: %v", err))
	}
	if !result.Valid() {
		return Failed("invalid analysis: " + describeSchemaErrors(result.Errors()))
	}

	// The document now matches the schema, so a round trip through the
	// struct cannot fail on types.
	data, err := json.Marshal(doc)
	if err != nil {
		return Failed(fmt.Sprintf("malformed analysis: %v", err))
	}
	var analysis Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return Failed(fmt.Sprintf("malformed analysis: %v", err))
	}
	return Succeeded(analysis)
}

func normalizeAnalysisDoc(doc map[string]any) {
	for k, v := range doc {
		if v == nil {
			delete(doc, k)
		}
	}

	if s, ok := doc["difficultyLevel"].(string); ok {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			delete(doc, "difficultyLevel")
		} else {
			doc["difficultyLevel"] = s
		}
	}
	if s, ok := doc["summary"].(string); ok {
		doc["summary"] = strings.TrimSpace(s)
	}

	if items, ok := doc["tags"].([]any); ok {
		doc["tags"] = normalizeList(items, true)
	}
	for _, key := range []string{"techStack", "approach"} {
		if items, ok := doc[key].([]any); ok {
			doc[key] = normalizeList(items, false)
		}
	}
}

// normalizeList trims string items and drops blank ones. Non-string items
// are kept so that schema validation reports them.
func normalizeList(items []any, lower bool) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			out = append(out, item)
			continue
		}
		s = strings.TrimSpace(s)
		if lower {
			s = strings.ToLower(s)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func describeSchemaErrors(errs []gojsonschema.ResultError) string {
	msgs := make([]string, 0, len(errs))
	for _, desc := range errs {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msgs = append(msgs, field+": "+desc.Description())
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
