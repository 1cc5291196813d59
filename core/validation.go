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


package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(f.String()) != ""
	})
	return v
}

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - ExternalID must be present and not only whitespace
//
// All other fields are optional; missing text renders as empty in the
// description sent to the analyzer.
func ValidateCandidate(c *Candidate) error {
	if c == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.StructField() == "ExternalID" {
					return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyExternalID)
				}
			}
		}
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}
	return nil
}

// ValidateEnrichedRecord checks a record before it is persisted.
func ValidateEnrichedRecord(r *EnrichedRecord) error {
	if r == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidCandidate)
	}
	if strings.TrimSpace(r.ExternalID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyExternalID)
	}
	if _, err := ParseDifficulty(string(r.Difficulty)); err != nil {
		return err
	}
	return nil
}
