// Package extractor performs best-effort heuristic extraction of profile
// fields from raw HTML. Nothing it produces is authoritative: every field is
// advisory input to the LLM normalizer, which reconciles the final schema.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/gfgprofile/models"
)

// rawSnippetLen is the fixed length (in characters) of the visible-text
// excerpt always included for the normalizer.
const rawSnippetLen = 2000

// Selector rules are tried in priority order; within a rule the first match
// in document order wins.
var (
	nameRules  = compileRules(".profile_name", ".name", "h1")
	aboutRules = compileRules(".about", ".bio", "p")

	badgeMatcher = cascadia.MustCompile(".badge, .user-badges li")
	skillMatcher = cascadia.MustCompile(".skill, .skills li, .tag")
)

// Counter patterns search the page's visible text for label-prefixed digit
// groups. Thousands separators are stripped before conversion.
var (
	reFollowers = regexp.MustCompile(`(?i)Followers[:\s]*([0-9,]+)`)
	reFollowing = regexp.MustCompile(`(?i)Following[:\s]*([0-9,]+)`)
	reSolved    = regexp.MustCompile(`(?i)(?:Problems solved|Solved problems)[:\s]*([0-9,]+)`)
	reArticles  = regexp.MustCompile(`(?i)(?:Articles|Posts)[:\s]*([0-9,]+)`)
)

func compileRules(selectors ...string) []cascadia.Selector {
	rules := make([]cascadia.Selector, 0, len(selectors))
	for _, s := range selectors {
		rules = append(rules, cascadia.MustCompile(s))
	}
	return rules
}

// Extract mines markup for profile fields. It never fails: markup that
// matches nothing still yields the raw text snippet.
func Extract(markup string) *models.ExtractedFields {
	fields := &models.ExtractedFields{}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup)); err == nil {
		fields.DisplayName = firstMatch(doc, nameRules)
		fields.About = firstMatch(doc, aboutRules)
		fields.Badges = listMatches(doc, badgeMatcher)
		fields.TopSkills = listMatches(doc, skillMatcher)
	}

	text := visibleText(markup)
	fields.Followers = grabNum(text, reFollowers)
	fields.Following = grabNum(text, reFollowing)
	fields.ProblemsSolved = grabNum(text, reSolved)
	fields.ArticlesCount = grabNum(text, reArticles)
	fields.RawTextSnippet = truncateRunes(text, rawSnippetLen)

	return fields
}

// firstMatch returns the trimmed text of the first element (in document
// order) matched by the highest-priority rule that matches anything.
func firstMatch(doc *goquery.Document, rules []cascadia.Selector) string {
	for _, rule := range rules {
		sel := doc.FindMatcher(rule)
		if sel.Length() > 0 {
			return strings.TrimSpace(sel.First().Text())
		}
	}
	return ""
}

// listMatches collects trimmed, non-empty text from every matched element.
// No matches yields nil so the field serializes as absent, not [].
func listMatches(doc *goquery.Document, matcher cascadia.Selector) []string {
	var items []string
	doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			items = append(items, t)
		}
	})
	return items
}

// grabNum runs a counter pattern over the visible text and converts the last
// captured digit group, with commas stripped, to an integer. nil means the
// label was not on the page.
func grabNum(text string, re *regexp.Regexp) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[len(m)-1], ",", ""))
	if err != nil {
		return nil
	}
	return &n
}
