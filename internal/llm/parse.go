package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/esnunes/promptsmith/internal/models"
)

var (
	jsonFence = regexp.MustCompile("(?s)\\A```(?:json)?[ \\t]*\\n(.*)\\n```\\s*\\z")
	compiled  = mustCompileSchema(resultSchema)
)

func mustCompileSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compiling result schema: %v", err))
	}
	return s
}

// parseResult turns raw model text into an AnalysisResult. The text may wrap
// the object in a ```json fence or surround it with prose.
func parseResult(text string) (*models.AnalysisResult, error) {
	raw, err := extractObject(text)
	if err != nil {
		return nil, err
	}

	res, err := compiled.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding model output: %w", err)
	}
	if !res.Valid() {
		var msgs []string
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("model output does not match schema: %s", strings.Join(msgs, "; "))
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("decoding model output: %w", err)
	}
	if result.ChangeLog == nil {
		result.ChangeLog = []string{}
	}
	return &result, nil
}

// extractObject returns the JSON object in text. A fence is only stripped
// when it wraps the whole reply; the object itself may contain fences.
func extractObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") && json.Valid([]byte(text)) {
		return text, nil
	}
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", errors.New("model output contains no JSON object")
	}
	return text[start : end+1], nil
}
