package badger

import (
	"fmt"

	"github.com/poiesic/psenrich/core"
)

// Key prefixes for different data types
const (
	problemRecordPrefix = "prbrec"
	problemRecordIDSeq  = "prbrecseq"
	runRecordPrefix     = "runrec"
)

// makeProblemKey generates the primary key for a record by external id.
// Format: prefix:externalID
func makeProblemKey(externalID string) []byte {
	return []byte(problemRecordPrefix + ":" + externalID)
}

// problemScanPrefix matches every primary problem key and nothing else.
// The sequence key shares the bare prefix but not the separator.
func problemScanPrefix() []byte {
	return []byte(problemRecordPrefix + ":")
}

// makeRunKey generates a key for the latest run of a mode.
func makeRunKey(mode core.RunMode) []byte {
	return []byte(fmt.Sprintf("%s:%s:last", runRecordPrefix, mode))
}
