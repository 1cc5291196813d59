package enrichment

import (
	"strings"
	"testing"

	"github.com/poiesic/psenrich/ai"
	"github.com/poiesic/psenrich/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildDescription_OmitsEmptyLinks(t *testing.T) {
	desc := BuildDescription(candidate("A"))

	assert.True(t, strings.HasPrefix(desc, "Title: Title A\n"))
	assert.NotContains(t, desc, "YouTube:")
	assert.NotContains(t, desc, "Dataset:")
	assert.False(t, strings.HasSuffix(desc, "\n"))
	assert.Len(t, strings.Split(desc, "\n"), 7)
}

func TestBuildDescription_IncludesLinks(t *testing.T) {
	c := candidate("A")
	c.YoutubeLink = "  https://youtu.be/x  "
	c.DatasetLink = "https://data.example.org"

	lines := strings.Split(BuildDescription(c), "\n")

	assert.Len(t, lines, 9)
	assert.Equal(t, "YouTube: https://youtu.be/x", lines[7])
	assert.Equal(t, "Dataset: https://data.example.org", lines[8])
}

func TestBuildDescription_Deterministic(t *testing.T) {
	assert.Equal(t, BuildDescription(candidate("A")), BuildDescription(candidate("A")))
	assert.NotEqual(t, BuildDescription(candidate("A")), BuildDescription(candidate("B")))
}

func TestMerge(t *testing.T) {
	c := candidate(" A ")
	a := ai.Analysis{
		Tags:       []string{"iot"},
		TechStack:  []string{"LoRa"},
		Summary:    "sensor mesh",
		Approach:   []string{"deploy sensors"},
		Difficulty: core.DifficultyHard,
	}

	rec := Merge(c, a)

	assert.Equal(t, "A", rec.ExternalID)
	assert.Equal(t, c.Title, rec.Title)
	assert.Equal(t, c.Contact, rec.Contact)
	assert.Equal(t, a.Tags, rec.Tags)
	assert.Equal(t, a.TechStack, rec.TechStack)
	assert.Equal(t, a.Approach, rec.Approach)
	assert.Equal(t, core.DifficultyHard, rec.Difficulty)
	assert.Equal(t, core.IDFromContent(BuildDescription(c)), rec.SourceDigest)
	assert.Zero(t, rec.Id)

	// Slices are copied.
	a.Tags[0] = "changed"
	assert.Equal(t, "iot", rec.Tags[0])
}

func TestMerge_Defaults(t *testing.T) {
	rec := Merge(candidate("A"), ai.Analysis{})

	assert.NotNil(t, rec.Tags)
	assert.NotNil(t, rec.TechStack)
	assert.NotNil(t, rec.Approach)
	assert.Empty(t, rec.Summary)
	assert.Equal(t, core.DefaultDifficulty, rec.Difficulty)
	assert.NoError(t, core.ValidateEnrichedRecord(rec))
}
