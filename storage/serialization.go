// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/poiesic/psenrich/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalEnrichedRecord serializes an EnrichedRecord to bytes.
func MarshalEnrichedRecord(record *core.EnrichedRecord) []byte {
	buf := make([]byte, core.EnrichedRecordMUS.Size(*record))
	core.EnrichedRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalEnrichedRecord deserializes an EnrichedRecord from bytes.
func UnmarshalEnrichedRecord(data []byte) (*core.EnrichedRecord, error) {
	record, _, err := core.EnrichedRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalRunRecord serializes a RunRecord to bytes.
func MarshalRunRecord(run *core.RunRecord) []byte {
	buf := make([]byte, core.RunRecordMUS.Size(*run))
	core.RunRecordMUS.Marshal(*run, buf)
	return buf
}

// UnmarshalRunRecord deserializes a RunRecord from bytes.
func UnmarshalRunRecord(data []byte) (*core.RunRecord, error) {
	run, _, err := core.RunRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &run, nil
}
