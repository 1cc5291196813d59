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


package openai

// repairJSON attempts to fix common JSON formatting issues from LLM responses:
// keys missing their opening quote (`, type":`), keys with no quotes at all
// (`{tags: [`) and trailing commas before a closing bracket.
// String contents are never modified.
func repairJSON(s string) string {
	return dropTrailingCommas(quoteBareKeys(s))
}

func quoteBareKeys(s string) string {
	src := []rune(s)
	fixed := make([]rune, 0, len(src)+16)
	inString, escaped := false, false

	i := 0
	for i < len(src) {
		ch := src[i]

		if inString {
			fixed = append(fixed, ch)
			i++
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			fixed = append(fixed, ch)
			i++
			continue
		}

		if ch != '{' && ch != ',' {
			fixed = append(fixed, ch)
			i++
			continue
		}

		// After { or , look for unquoted keys
		fixed = append(fixed, ch)
		i++
		for i < len(src) && isSpace(src[i]) {
			fixed = append(fixed, src[i])
			i++
		}
		if i >= len(src) || !isLetter(src[i]) {
			continue
		}

		keyStart := i
		for i < len(src) && (isLetter(src[i]) || src[i] == '_' || (src[i] >= '0' && src[i] <= '9')) {
			i++
		}
		key := src[keyStart:i]

		switch {
		case i+1 < len(src) && src[i] == '"' && src[i+1] == ':':
			// Missing opening quote; the closing quote is consumed here.
			fixed = append(fixed, '"')
			fixed = append(fixed, key...)
			fixed = append(fixed, '"')
			i++
		case followedByColon(src, i):
			fixed = append(fixed, '"')
			fixed = append(fixed, key...)
			fixed = append(fixed, '"')
		default:
			// A literal such as true or null, copy it unchanged.
			fixed = append(fixed, key...)
		}
	}

	return string(fixed)
}

func followedByColon(src []rune, i int) bool {
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	return i < len(src) && src[i] == ':'
}

func dropTrailingCommas(s string) string {
	src := []rune(s)
	fixed := make([]rune, 0, len(src))
	inString, escaped := false, false

	for i, ch := range src {
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			fixed = append(fixed, ch)
			continue
		}
		if ch == '"' {
			inString = true
		}
		if ch == ',' {
			j := i + 1
			for j < len(src) && isSpace(src[j]) {
				j++
			}
			if j < len(src) && (src[j] == '}' || src[j] == ']') {
				continue
			}
		}
		fixed = append(fixed, ch)
	}
	return string(fixed)
}
