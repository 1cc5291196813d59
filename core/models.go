package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a storage-internal identifier. It is allocated from a database sequence
// or derived from content, and is never the external id of a problem statement.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Difficulty is the closed set of difficulty levels assigned by the analyzer.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"

	// DefaultDifficulty is used when the analyzer omits a level.
	DefaultDifficulty = DifficultyMedium
)

// ParseDifficulty parses a difficulty level, ignoring case and surrounding whitespace.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", ErrInvalidDifficulty
	}
}

// Candidate is a problem statement awaiting enrichment.
// Candidates come from a static catalog and are never modified.
type Candidate struct {
	ExternalID   string `json:"id" yaml:"id" validate:"required,notblank"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Organization string `json:"organization" yaml:"organization"`
	Department   string `json:"department" yaml:"department"`
	Category     string `json:"category" yaml:"category"`
	Theme        string `json:"theme" yaml:"theme"`
	Contact      string `json:"contact" yaml:"contact"`
	YoutubeLink  string `json:"youtubeLink,omitempty" yaml:"youtubeLink,omitempty"`
	DatasetLink  string `json:"datasetLink,omitempty" yaml:"datasetLink,omitempty"`
}

// EnrichedRecord is a Candidate plus the metadata produced by the analyzer.
// It is written once and never updated by the pipeline.
type EnrichedRecord struct {
	Id           ID         `json:"-"`
	ExternalID   string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Organization string     `json:"organization"`
	Department   string     `json:"department"`
	Category     string     `json:"category"`
	Theme        string     `json:"theme"`
	Contact      string     `json:"contact"`
	YoutubeLink  string     `json:"youtubeLink,omitempty"`
	DatasetLink  string     `json:"datasetLink,omitempty"`
	Tags         []string   `json:"tags"`
	TechStack    []string   `json:"techStack"`
	Summary      string     `json:"summary"`
	Approach     []string   `json:"approach"`
	Difficulty   Difficulty `json:"difficultyLevel"`
	SourceDigest ID         `json:"sourceDigest"` // IDFromContent of the text sent to the analyzer
	InsertedAt   time.Time  `json:"insertedAt"`
}

// Candidate returns the non-AI fields of the record as a Candidate.
func (r *EnrichedRecord) Candidate() Candidate {
	return Candidate{
		ExternalID:   r.ExternalID,
		Title:        r.Title,
		Description:  r.Description,
		Organization: r.Organization,
		Department:   r.Department,
		Category:     r.Category,
		Theme:        r.Theme,
		Contact:      r.Contact,
		YoutubeLink:  r.YoutubeLink,
		DatasetLink:  r.DatasetLink,
	}
}

// RunMode identifies how a pipeline run was invoked.
type RunMode string

const (
	RunModeBatch  RunMode = "batch"
	RunModeSingle RunMode = "single"
)

// RunRecord is the persisted trace of one pipeline invocation.
type RunRecord struct {
	RunID      string
	Mode       RunMode
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Created    int
	Skipped    int
	Failed     int
}
