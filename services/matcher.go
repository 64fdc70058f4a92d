// services/matcher.go
package services

import (
	"log"
	"strings"
	"time"

	"invoicepro-backend/models"

	"github.com/google/uuid"
)

// MatchRequest carries the free-text input for template resolution.
// Service, when present, is the primary search term; otherwise Description is used.
type MatchRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Service     string  `json:"service"`
}

// MatchResult is the outcome of a resolution attempt. Confidence 0 means
// no usable match (empty input or a storage failure); callers fall back to
// the raw description/amount.
type MatchResult struct {
	Template     *models.ServiceTemplate `json:"template,omitempty"`
	Confidence   float64                 `json:"confidence"`
	Created      bool                    `json:"created"`
	IsExactMatch bool                    `json:"isExactMatch"`
}

// TemplateStore is the persistence boundary for the matcher.
type TemplateStore interface {
	// ListByUser returns the user's templates ordered by is_preferred desc,
	// usage_count desc, created_at asc. The order is fixed so tie-breaking
	// between equal scores is deterministic.
	ListByUser(userID uuid.UUID) ([]models.ServiceTemplate, error)
	IncrementUsage(templateID uuid.UUID) error
	Create(template *models.ServiceTemplate) error
}

// ServiceMatcher resolves free-text service descriptions against a user's
// saved templates, learning over time from usage counts and recency.
type ServiceMatcher struct {
	store TemplateStore
	now   func() time.Time
}

func NewServiceMatcher(store TemplateStore) *ServiceMatcher {
	return &ServiceMatcher{store: store, now: time.Now}
}

const matchThreshold = 0.6

// Resolve finds the best-matching template for the request, incrementing its
// usage counter on success, or creates a new template when nothing scores
// above the threshold. Storage errors are logged and soft-fail with
// confidence 0; they are never propagated.
func (m *ServiceMatcher) Resolve(userID uuid.UUID, req MatchRequest) MatchResult {
	term := strings.TrimSpace(req.Service)
	if term == "" {
		term = strings.TrimSpace(req.Description)
	}
	if term == "" {
		return MatchResult{}
	}

	templates, err := m.store.ListByUser(userID)
	if err != nil {
		log.Printf("Service matcher: failed to load templates for user %s: %v", userID, err)
		return MatchResult{}
	}

	now := m.now()
	var best *models.ServiceTemplate
	var bestScore float64
	var bestExact bool

	for i := range templates {
		score, exact := scoreTemplate(&templates[i], term, now)
		// Only strictly greater scores replace the incumbent, so the
		// store's preferred/usage ordering decides ties.
		if score > bestScore {
			best = &templates[i]
			bestScore = score
			bestExact = exact
		}
	}

	if best != nil && bestScore > matchThreshold {
		if err := m.store.IncrementUsage(best.ID); err != nil {
			log.Printf("Service matcher: failed to record usage for template %s: %v", best.ID, err)
			return MatchResult{}
		}
		best.UsageCount++
		return MatchResult{
			Template:     best,
			Confidence:   bestScore,
			IsExactMatch: bestExact,
		}
	}

	template := m.buildTemplate(userID, req, term)
	if err := m.store.Create(template); err != nil {
		log.Printf("Service matcher: failed to create template for user %s: %v", userID, err)
		return MatchResult{}
	}

	return MatchResult{
		Template:   template,
		Confidence: 1.0,
		Created:    true,
	}
}

// scoreTemplate computes a match score in [0,1] for one template. The exact
// flag reports whether the base score (before learning adjustments) reached
// 0.9, which marks name-level matches.
func scoreTemplate(t *models.ServiceTemplate, term string, now time.Time) (float64, bool) {
	search := strings.ToLower(strings.TrimSpace(term))
	name := strings.ToLower(strings.TrimSpace(t.Name))
	description := strings.ToLower(t.Description)
	keywords := strings.ToLower(t.Keywords)

	if search == name {
		return 1.0, true
	}

	var score float64
	if strings.Contains(name, search) || strings.Contains(search, name) {
		score = 0.9
	}
	if keywords != "" && strings.Contains(keywords, search) && score < 0.8 {
		score = 0.8
	}
	if description != "" && strings.Contains(description, search) && score < 0.7 {
		score = 0.7
	}

	// Token-level matching: each search word scores against name words at
	// full weight, keyword words at 0.8 and description words at 0.7. The
	// word ratio contributes at most 0.6 of the final score.
	searchWords := splitWords(search)
	if len(searchWords) > 0 {
		nameWords := splitWords(name)
		descWords := splitWords(description)
		keywordWords := splitWords(strings.ReplaceAll(keywords, ",", " "))

		var wordScore float64
		for _, word := range searchWords {
			if len(word) < 2 {
				continue
			}
			switch {
			case wordsContain(nameWords, word):
				wordScore += 1.0
			case wordsContain(keywordWords, word):
				wordScore += 0.8
			case wordsContain(descWords, word):
				wordScore += 0.7
			}
		}
		ratio := wordScore / float64(len(searchWords))
		if ratio*0.6 > score {
			score = ratio * 0.6
		}
	}

	exact := score >= 0.9

	// Learning adjustments only apply once there is a plausible base match.
	if score > 0.3 {
		if t.IsPreferred {
			score = capScore(score + 0.3)
		}
		if t.UsageCount > 10 {
			score = capScore(score + 0.15)
		} else if t.UsageCount > 5 {
			score = capScore(score + 0.1)
		}
		if score > 0.4 && now.Sub(t.UpdatedAt) <= 7*24*time.Hour {
			score = capScore(score + 0.05)
		}
	}

	return score, exact
}

func capScore(s float64) float64 {
	if s > 1.0 {
		return 1.0
	}
	return s
}

func splitWords(s string) []string {
	return strings.Fields(s)
}

// wordsContain reports whether any word partially contains the search word
// or vice versa.
func wordsContain(words []string, search string) bool {
	for _, w := range words {
		if strings.Contains(w, search) || strings.Contains(search, w) {
			return true
		}
	}
	return false
}

// buildTemplate assembles a new template from the request: name extraction,
// keyword derivation and category inference.
func (m *ServiceMatcher) buildTemplate(userID uuid.UUID, req MatchRequest, term string) *models.ServiceTemplate {
	name := strings.TrimSpace(req.Service)
	if name == "" {
		name = extractServiceName(req.Description)
	}

	return &models.ServiceTemplate{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		UnitPrice:   req.Amount,
		Quantity:    1,
		Keywords:    DeriveKeywords(name, req.Description),
		Category:    InferCategory(name + " " + req.Description),
		IsActive:    true,
	}
}
