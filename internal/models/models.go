package models

import "time"

// Record is a structured plant identification parsed from a model reply.
// AlternativeName is nil when the model reported none; that is distinct
// from an empty string, which means the label was present but blank.
type Record struct {
	Name            string  `json:"name" yaml:"name"`
	AlternativeName *string `json:"alternative_name,omitempty" yaml:"alternative_name,omitempty"`
	ScientificName  string  `json:"scientific_name" yaml:"scientific_name"`
	Description     string  `json:"description" yaml:"description"`
}

// HasAlternativeName reports whether the record carries an alternative
// common name.
func (r *Record) HasAlternativeName() bool {
	return r.AlternativeName != nil
}

// Attempt state values. Exactly one state is active per attempt.
const (
	StateIdle    = "idle"
	StateLoading = "loading"
	StateError   = "error"
	StateResult  = "result"
)

// Attempt represents one identification attempt and the view model the
// web UI polls. A new acquisition supersedes the previous attempt
// wholesale; an attempt is never partially mutated after it resolves.
type Attempt struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Preview   string    `json:"preview,omitempty"` // data URL thumbnail of the submitted image
	Record    *Record   `json:"record,omitempty"`
	Error     string    `json:"error,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
