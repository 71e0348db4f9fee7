package llm

import "fmt"

// buildSystemPrompt creates the normalization instruction. The schema here
// must stay in lockstep with models.Profile: the validator rejects any key
// the model invents beyond it.
func buildSystemPrompt(username string) string {
	return fmt.Sprintf(`You are given a JSON object of raw information extracted from a GeeksforGeeks user page.
Generate a clean JSON object that follows this schema exactly:
{
  "username": "%s",
  "display_name": string|null,
  "about": string|null,
  "reputation": string|null,
  "followers": int|null,
  "following": int|null,
  "problems_solved": int|null,
  "articles_count": int|null,
  "badges": [string],
  "top_skills": [string],
  "raw_extracted": object
}

Rules:
- Output ONLY valid JSON matching the schema, nothing else. No markdown fences, no explanation.
- Use null for any field that cannot be determined from the raw information.
- Numeric fields must be non-negative integers.
- Never add fields that are not in the schema; put leftover raw values into "raw_extracted".`, username)
}
