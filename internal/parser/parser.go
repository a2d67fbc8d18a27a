// Package parser converts the free-text reply of a vision model into a
// structured identification record.
//
// The models are prompted to answer with one "Label: value" line per
// field. Replies are not guaranteed to follow that format, so parsing is
// deliberately forgiving about everything except the four labels it
// recognizes: unknown labels, blank lines, and lines without a colon are
// skipped without error.
package parser

import (
	"fmt"
	"strings"

	"github.com/verdantlabs/plantid/internal/models"
)

// Recognized field labels. Matching is exact after trimming whitespace.
const (
	labelCommonName      = "Common Name"
	labelAlternativeName = "Alternative Name"
	labelScientificName  = "Scientific Name"
	labelDescription     = "Description"
)

// noneSentinel is what the prompt instructs the model to write when no
// alternative name exists.
const noneSentinel = "None"

// MalformedResponseError reports a reply that parsed without any value
// for one or more required fields.
type MalformedResponseError struct {
	Missing []string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: missing required field(s): %s", strings.Join(e.Missing, ", "))
}

// Parse extracts an identification record from a model reply.
//
// Each line is split on its first colon; the text before the colon is
// the candidate label, the remainder (colons included) is the value, and
// both are trimmed. When the same label appears more than once the last
// occurrence wins. An "Alternative Name" value of exactly "None" is
// stored as absent rather than as the literal text.
//
// Parse fails with *MalformedResponseError when the reply never assigned
// one of the required fields (common name, scientific name,
// description). ParseLenient preserves the permissive behavior.
func Parse(text string) (*models.Record, error) {
	record, seen := scan(text)

	var missing []string
	for _, label := range []string{labelCommonName, labelScientificName, labelDescription} {
		if !seen[label] {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return nil, &MalformedResponseError{Missing: missing}
	}
	return record, nil
}

// ParseLenient extracts whatever labeled fields the reply contains,
// leaving unassigned fields at their zero value. Callers that need the
// required fields should use Parse.
func ParseLenient(text string) *models.Record {
	record, _ := scan(text)
	return record
}

func scan(text string) (*models.Record, map[string]bool) {
	record := &models.Record{}
	seen := make(map[string]bool, 4)

	for _, line := range strings.Split(text, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)

		switch label {
		case labelCommonName:
			record.Name = value
		case labelAlternativeName:
			if value == noneSentinel {
				record.AlternativeName = nil
			} else {
				record.AlternativeName = &value
			}
		case labelScientificName:
			record.ScientificName = value
		case labelDescription:
			record.Description = value
		default:
			continue
		}
		seen[label] = true
	}

	return record, seen
}
