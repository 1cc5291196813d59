package enrichment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteReport writes summary as indented JSON.
func WriteReport(w io.Writer, summary *RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

// SaveReport writes summary to path, replacing any existing file.
func SaveReport(path string, summary *RunSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteReport(f, summary); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
