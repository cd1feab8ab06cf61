package workflow

// Template seeds a new draft.
type Template struct {
	Name    string
	Title   string
	Summary string
	Content string
}

// Templates is the built-in catalog offered when creating a prompt.
var Templates = []Template{
	{
		Name:    "code-review",
		Title:   "Code review",
		Summary: "Review a diff for bugs and style",
		Content: `You are reviewing a code change.
Point out bugs, unsafe patterns and unclear naming.
Group findings by severity and quote the offending lines.
Do not rewrite the whole change.`,
	},
	{
		Name:    "summarize",
		Title:   "Document summary",
		Summary: "Summarize a long document for a busy reader",
		Content: `Summarize the document below for someone with two minutes.
Start with one sentence stating the main conclusion.
Then list at most five key points.
Keep numbers and names exactly as written.`,
	},
	{
		Name:    "support-reply",
		Title:   "Support reply",
		Summary: "Answer a customer ticket politely",
		Content: `Write a reply to the customer ticket below.
Be polite and concrete. Never promise refunds or dates.
If information is missing, ask for it in a single question.`,
	},
	{
		Name:    "translate",
		Title:   "Translation",
		Summary: "Translate text while keeping formatting",
		Content: `Translate the text below into the target language.
Keep Markdown formatting, code blocks and placeholders such as {name} untouched.
Do not add explanations.`,
	},
}

// FindTemplate looks a template up by name.
func FindTemplate(name string) (Template, bool) {
	for _, t := range Templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
