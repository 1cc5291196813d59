package enrichment

import (
	"strings"

	"github.com/poiesic/psenrich/core"
)

// BuildDescription renders the text sent to the analyzer: one labelled line
// per field, values trimmed, in a fixed order. YouTube and dataset links are
// included only when present.
func BuildDescription(c core.Candidate) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(value))
		b.WriteByte('\n')
	}

	line("Title", c.Title)
	line("Description", c.Description)
	line("Organization", c.Organization)
	line("Department", c.Department)
	line("Category", c.Category)
	line("Theme", c.Theme)
	line("Contact", c.Contact)
	if link := strings.TrimSpace(c.YoutubeLink); link != "" {
		line("YouTube", link)
	}
	if link := strings.TrimSpace(c.DatasetLink); link != "" {
		line("Dataset", link)
	}

	return strings.TrimSuffix(b.String(), "\n")
}
