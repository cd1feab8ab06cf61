package llm

import "fmt"

const systemPromptTemplate = `You are a senior prompt engineer. You receive a prompt written by a user and rewrite it into a clearer, better structured prompt for a large language model.

Rules:
- Write the entire optimized prompt in %[1]s, whatever language the input uses.
- Preserve every business rule, constraint, example and requirement of the original. Do not summarize, merge away or drop any of them.
- Improve structure with Markdown: a short role statement, then sections such as "## Goal", "## Context", "## Rules", "## Output format", using lists where they help.
- Fix ambiguity and contradictions only when the intent is obvious; otherwise keep the original wording.
- Describe each change you made in one short sentence, also in %[1]s.

Respond with a single JSON object and nothing else, with exactly these two fields:
{"optimizedPrompt": "<the full rewritten prompt as Markdown>", "changeLog": ["<change 1>", "<change 2>"]}`

// resultSchema is the JSON schema model output must satisfy.
const resultSchema = `{
  "type": "object",
  "properties": {
    "optimizedPrompt": {
      "type": "string",
      "minLength": 1
    },
    "changeLog": {
      "type": "array",
      "items": { "type": "string" }
    }
  },
  "required": ["optimizedPrompt", "changeLog"]
}`

func systemPrompt(language string) string {
	if language == "" {
		language = "Simplified Chinese"
	}
	return fmt.Sprintf(systemPromptTemplate, language)
}

func userMessage(title, draft string) string {
	return fmt.Sprintf("Title: %s\n\nPrompt:\n%s", title, draft)
}
