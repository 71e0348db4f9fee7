package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Profile is the canonical, schema-validated record for a single username.
// It is the only shape ever written to the output file: optional scalars are
// serialized as null, list fields default to empty lists, and raw_extracted
// defaults to an empty object.
type Profile struct {
	Username       string         `json:"username"`
	DisplayName    *string        `json:"display_name"`
	About          *string        `json:"about"`
	Reputation     *string        `json:"reputation"`
	Followers      *int           `json:"followers"`
	Following      *int           `json:"following"`
	ProblemsSolved *int           `json:"problems_solved"`
	ArticlesCount  *int           `json:"articles_count"`
	Badges         []string       `json:"badges"`
	TopSkills      []string       `json:"top_skills"`
	RawExtracted   map[string]any `json:"raw_extracted"`
}

// ParseProfile decodes and validates a normalizer response against the
// canonical schema. Unknown keys are a hard failure, not a warning: the
// normalizer promised to emit exactly this shape, so anything extra means
// it drifted and the run must not be persisted.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, NewPipelineError(ErrCodeValidation, "response does not match profile schema", err)
	}

	if p.Username == "" {
		return nil, NewPipelineError(ErrCodeValidation, "username is required", nil)
	}

	counters := map[string]*int{
		"followers":       p.Followers,
		"following":       p.Following,
		"problems_solved": p.ProblemsSolved,
		"articles_count":  p.ArticlesCount,
	}
	for name, v := range counters {
		if v != nil && *v < 0 {
			return nil, NewPipelineError(ErrCodeValidation,
				fmt.Sprintf("%s must be a non-negative integer, got %d", name, *v), nil)
		}
	}

	p.ApplyDefaults()
	return &p, nil
}

// ApplyDefaults fills the collection fields that must never serialize as null.
func (p *Profile) ApplyDefaults() {
	if p.Badges == nil {
		p.Badges = []string{}
	}
	if p.TopSkills == nil {
		p.TopSkills = []string{}
	}
	if p.RawExtracted == nil {
		p.RawExtracted = map[string]any{}
	}
}
