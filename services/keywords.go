// services/keywords.go
package services

import (
	"regexp"
	"strings"
)

// nameStopwords filters filler words when deriving a template name from a
// description.
var nameStopwords = map[string]bool{
	"the": true, "for": true, "and": true, "with": true, "from": true,
}

// keywordStopwords is the extended list applied when deriving search keywords.
var keywordStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true,
}

// voiceSynonyms expands template keywords with phrases customers actually say.
var voiceSynonyms = map[string][]string{
	"callout":    {"call out", "standard fee", "basic charge"},
	"standard":   {"usual", "regular", "normal"},
	"consulting": {"consultation", "advice", "consultancy"},
}

var serviceNamePattern = regexp.MustCompile(`((?:[a-z]+\s+){0,2}(?:service|work|job|consultation|repair))\b`)

// extractServiceName derives a short template name from a free-text
// description. It prefers the words leading up to a trade keyword, then the
// first few meaningful words, then a plain prefix of the description.
func extractServiceName(description string) string {
	desc := strings.TrimSpace(description)
	lower := strings.ToLower(desc)

	if match := serviceNamePattern.FindStringSubmatch(lower); match != nil {
		return strings.TrimSpace(match[1])
	}

	var meaningful []string
	for _, word := range strings.Fields(lower) {
		if nameStopwords[word] {
			continue
		}
		meaningful = append(meaningful, word)
		if len(meaningful) == 3 {
			break
		}
	}
	if len(meaningful) > 0 {
		return strings.Join(meaningful, " ")
	}

	if len(desc) > 30 {
		return desc[:30]
	}
	return desc
}

// DeriveKeywords builds the comma-separated keyword field from the template
// name and description, expanded with voice-friendly synonyms. Controllers
// call it too so curated templates match the same phrasings as resolver-created
// ones.
func DeriveKeywords(name, description string) string {
	seen := make(map[string]bool)
	var keywords []string

	add := func(word string) {
		word = strings.TrimSpace(word)
		if word == "" || keywordStopwords[word] || seen[word] {
			return
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	for _, word := range strings.Fields(strings.ToLower(name)) {
		add(word)
	}
	for _, word := range strings.Fields(strings.ToLower(description)) {
		add(word)
	}

	lowerName := strings.ToLower(name)
	for trigger, synonyms := range voiceSynonyms {
		if strings.Contains(lowerName, trigger) {
			for _, s := range synonyms {
				add(s)
			}
		}
	}

	return strings.Join(keywords, ",")
}

// categoryTerms maps a category to the terms that suggest it. Order matters:
// the first category with a hit wins.
var categoryOrder = []string{
	"plumbing", "electrical", "hvac", "consulting",
	"repair", "installation", "cleaning", "landscaping",
}

var categoryTerms = map[string][]string{
	"plumbing":     {"plumb", "pipe", "leak", "faucet", "drain", "toilet", "tap", "water heater"},
	"electrical":   {"electric", "wiring", "outlet", "socket", "light", "circuit", "breaker", "rewir"},
	"hvac":         {"hvac", "heating", "cooling", "furnace", "air con", "aircon", "duct", "thermostat"},
	"consulting":   {"consult", "advis", "advice", "strategy", "audit"},
	"repair":       {"repair", "fix", "broken", "restor"},
	"installation": {"install", "setup", "mount", "fitting"},
	"cleaning":     {"clean", "wash", "vacuum", "sanitiz"},
	"landscaping":  {"landscap", "garden", "lawn", "mow", "hedge", "tree"},
}

// InferCategory scans the categories in fixed order and returns the first one
// whose terms appear in the text, defaulting to "general".
func InferCategory(text string) string {
	lower := strings.ToLower(text)
	for _, category := range categoryOrder {
		for _, term := range categoryTerms[category] {
			if strings.Contains(lower, term) {
				return category
			}
		}
	}
	return "general"
}
