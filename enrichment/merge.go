package enrichment

import (
	"slices"
	"strings"

	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/core"
)

// Merge builds the record to persist from a candidate and its analysis.
// Defaults are applied to a; the candidate's fields are copied unchanged
// except for trimming the external id.
func Merge(c core.Candidate, a ai.Analysis) *core.EnrichedRecord {
	a = a.WithDefaults()
	return &core.EnrichedRecord{
		ExternalID:   strings.TrimSpace(c.ExternalID),
		Title:        c.Title,
		Description:  c.Description,
		Organization: c.Organization,
		Department:   c.Department,
		Category:     c.Category,
		Theme:        c.Theme,
		Contact:      c.Contact,
		YoutubeLink:  c.YoutubeLink,
		DatasetLink:  c.DatasetLink,
		Tags:         slices.Clone(a.Tags),
		TechStack:    slices.Clone(a.TechStack),
		Summary:      a.Summary,
		Approach:     slices.Clone(a.Approach),
		Difficulty:   a.Difficulty,
		SourceDigest: core.IDFromContent(BuildDescription(c)),
	}
}
