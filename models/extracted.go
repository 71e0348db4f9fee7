package models

// ExtractedFields is the intermediate output of the heuristic HTML extractor.
// Every field is advisory: the normalizer reconciles whatever subset was found.
//
// Serialization quirks are part of the contract with the normalizer prompt:
// string and list fields are omitted entirely when empty, while the numeric
// counters are always present (null when the page had no matching label), and
// the raw text snippet is always present.
type ExtractedFields struct {
	DisplayName string `json:"display_name,omitempty"`
	About       string `json:"about,omitempty"`

	Followers      *int `json:"followers"`
	Following      *int `json:"following"`
	ProblemsSolved *int `json:"problems_solved"`
	ArticlesCount  *int `json:"articles_count"`

	Badges    []string `json:"badges,omitempty"`
	TopSkills []string `json:"top_skills,omitempty"`

	// RawTextSnippet is the first 2000 characters of the page's visible text,
	// newline-joined. Always set, even when nothing else matched.
	RawTextSnippet string `json:"raw_text_snippet"`
}
