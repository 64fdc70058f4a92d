package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"invoicepro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeTemplateStore keeps templates in memory in the order given, mirroring
// the preferred/usage ordering the real store applies.
type fakeTemplateStore struct {
	templates   []models.ServiceTemplate
	incremented []uuid.UUID
	created     []*models.ServiceTemplate
	listErr     error
	incErr      error
	createErr   error
}

func (s *fakeTemplateStore) ListByUser(userID uuid.UUID) ([]models.ServiceTemplate, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.templates, nil
}

func (s *fakeTemplateStore) IncrementUsage(templateID uuid.UUID) error {
	if s.incErr != nil {
		return s.incErr
	}
	s.incremented = append(s.incremented, templateID)
	return nil
}

func (s *fakeTemplateStore) Create(template *models.ServiceTemplate) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, template)
	return nil
}

func template(name, description, keywords string) models.ServiceTemplate {
	return models.ServiceTemplate{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Keywords:    keywords,
	}
}

func TestResolve_EmptyInputIsSoftFail(t *testing.T) {
	store := &fakeTemplateStore{}
	m := NewServiceMatcher(store)

	result := m.Resolve(uuid.New(), MatchRequest{Description: "   ", Service: ""})

	if result.Confidence != 0 || result.Created || result.IsExactMatch || result.Template != nil {
		t.Fatalf("expected zero result, got %+v", result)
	}
	if len(store.incremented) != 0 || len(store.created) != 0 {
		t.Fatal("empty input must not touch the store")
	}
}

func TestResolve_ExactNameMatch(t *testing.T) {
	existing := template("Standard Callout", "Standard callout fee", "callout,standard,fee")
	store := &fakeTemplateStore{templates: []models.ServiceTemplate{existing}}
	m := NewServiceMatcher(store)

	result := m.Resolve(uuid.New(), MatchRequest{Service: "standard callout"})

	if result.Created {
		t.Fatal("exact match must not create a template")
	}
	if !result.IsExactMatch {
		t.Fatal("expected isExactMatch for exact name equality")
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", result.Confidence)
	}
	if len(store.incremented) != 1 || store.incremented[0] != existing.ID {
		t.Fatalf("expected usage increment for %s, got %v", existing.ID, store.incremented)
	}
	if result.Template.UsageCount != 1 {
		t.Fatalf("expected returned template to reflect the increment, got %d", result.Template.UsageCount)
	}
}

func TestResolve_RepeatedCallsIncrementEachTime(t *testing.T) {
	existing := template("Standard Callout", "", "")
	store := &fakeTemplateStore{templates: []models.ServiceTemplate{existing}}
	m := NewServiceMatcher(store)
	userID := uuid.New()

	first := m.Resolve(userID, MatchRequest{Service: "Standard Callout"})
	second := m.Resolve(userID, MatchRequest{Service: "Standard Callout"})

	if first.Template.ID != second.Template.ID {
		t.Fatal("identical search terms must resolve to the same template")
	}
	if len(store.incremented) != 2 {
		t.Fatalf("expected 2 usage increments, got %d", len(store.incremented))
	}
}

func TestResolve_SubstringMatchIsExact(t *testing.T) {
	existing := template("Standard Callout", "", "")
	store := &fakeTemplateStore{templates: []models.ServiceTemplate{existing}}
	m := NewServiceMatcher(store)

	result := m.Resolve(uuid.New(), MatchRequest{Service: "callout"})

	if result.Created {
		t.Fatal("substring match must not create a template")
	}
	if !result.IsExactMatch {
		t.Fatal("name-level substring containment should mark the match exact")
	}
	if result.Confidence < 0.9 {
		t.Fatalf("expected confidence >= 0.9, got %v", result.Confidence)
	}
}

func TestResolve_KeywordMatchIsNotExact(t *testing.T) {
	existing := template("Standard Callout", "", "callout,call out,standard fee,basic charge")
	store := &fakeTemplateStore{templates: []models.ServiceTemplate{existing}}
	m := NewServiceMatcher(store)

	result := m.Resolve(uuid.New(), MatchRequest{Service: "call out"})

	if result.Created {
		t.Fatalf("keyword match must not create a template, got %+v", result)
	}
	if result.IsExactMatch {
		t.Fatal("keyword-level match must not be marked exact")
	}
	if result.Confidence < 0.7 {
		t.Fatalf("expected keyword match above threshold, got %v", result.Confidence)
	}
}

func TestResolve_CuratedTemplateMatchesVoicePhrasing(t *testing.T) {
	// Templates saved through the CRUD endpoints carry derived keywords, so
	// a voice phrasing like "call out" must land on the existing template
	// instead of creating a near-duplicate.
	existing := template("Standard Callout", "", DeriveKeywords("Standard Callout", ""))
	store := &fakeTemplateStore{templates: []models.ServiceTemplate{existing}}
	m := NewServiceMatcher(store)

	result := m.Resolve(uuid.New(), MatchRequest{Service: "call out"})

	if result.Created {
		t.Fatalf("expected the curated template to match, got %+v", result)
	}
	if result.Template == nil || result.Template.ID != existing.ID {
		t.Fatalf("expected template %s, got %+v", existing.ID, result.Template)
	}
	if result.Confidence < 0.79 || result.Confidence > 0.81 {
		t.Fatalf("expected keyword-tier confidence 0.8, got %v", result.Confidence)
	}
	if len(store.created) != 0 {
		t.Fatal("matching must not create a duplicate template")
	}
}

func TestResolve_PreferredBoostWins(t *testing.T) {
	plain := template("Site Visit Alpha", "", "")
	preferred := template("Site Visit Beta", "", "")
	preferred.IsPreferred = true

	// Listed after the plain template so only its boosted score can win.
	store := &fakeTemplateStore{templates: []models.ServiceTemplate{plain, preferred}}
	m := NewServiceMatcher(store)

	result := m.Resolve(uuid.New(), MatchRequest{Service: "site visit"})

	if result.Template == nil || result.Template.ID != preferred.ID {
		t.Fatalf("expected the preferred template to win, got %+v", result.Template)
	}
}

func TestResolve_StoreErrorsAreSoftFailures(t *testing.T) {
	userID := uuid.New()

	listBroken := &fakeTemplateStore{listErr: errors.New("connection refused")}
	if result := NewServiceMatcher(listBroken).Resolve(userID, MatchRequest{Service: "anything"}); result.Confidence != 0 {
		t.Fatalf("list failure must yield zero confidence, got %v", result.Confidence)
	}

	incBroken := &fakeTemplateStore{
		templates: []models.ServiceTemplate{template("Standard Callout", "", "")},
		incErr:    gorm.ErrInvalidDB,
	}
	if result := NewServiceMatcher(incBroken).Resolve(userID, MatchRequest{Service: "Standard Callout"}); result.Confidence != 0 {
		t.Fatalf("increment failure must yield zero confidence, got %v", result.Confidence)
	}

	createBroken := &fakeTemplateStore{createErr: errors.New("constraint violation")}
	if result := NewServiceMatcher(createBroken).Resolve(userID, MatchRequest{Description: "fix leaking faucet"}); result.Confidence != 0 {
		t.Fatalf("create failure must yield zero confidence, got %v", result.Confidence)
	}
}

func TestResolve_CreatesTemplateWhenNothingMatches(t *testing.T) {
	store := &fakeTemplateStore{}
	m := NewServiceMatcher(store)
	userID := uuid.New()

	result := m.Resolve(userID, MatchRequest{Description: "fix leaking faucet", Amount: 120})

	if !result.Created {
		t.Fatalf("expected a new template, got %+v", result)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0 for a created template, got %v", result.Confidence)
	}
	if result.IsExactMatch {
		t.Fatal("created templates are never exact matches")
	}

	created := result.Template
	if created.UserID != userID {
		t.Fatalf("template owner mismatch: %s", created.UserID)
	}
	if !strings.Contains(created.Name, "fix leaking") {
		t.Fatalf("unexpected derived name %q", created.Name)
	}
	if created.Category != "plumbing" {
		t.Fatalf("expected plumbing category, got %q", created.Category)
	}
	if created.UnitPrice != 120 {
		t.Fatalf("expected unit price 120, got %v", created.UnitPrice)
	}
	if created.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %v", created.Quantity)
	}
	if created.UsageCount != 0 {
		t.Fatal("new templates must start at usage count 0")
	}
	if len(store.incremented) != 0 {
		t.Fatal("creation must not increment usage")
	}
}

func TestResolve_ExplicitServiceNameWinsOverDerivation(t *testing.T) {
	store := &fakeTemplateStore{}
	m := NewServiceMatcher(store)

	result := m.Resolve(uuid.New(), MatchRequest{
		Service:     "Emergency Callout",
		Description: "after hours emergency callout fee",
		Amount:      180,
	})

	if !result.Created {
		t.Fatalf("expected creation, got %+v", result)
	}
	if result.Template.Name != "Emergency Callout" {
		t.Fatalf("explicit service name must be kept verbatim, got %q", result.Template.Name)
	}
}

func TestScoreTemplate_LearningAdjustments(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	base := template("Quarterly Maintenance", "routine maintenance visit for hvac systems", "")

	// Description containment gives 0.7; no boosts below apply.
	score, exact := scoreTemplate(&base, "routine maintenance visit", now)
	if exact {
		t.Fatal("description containment must not be exact")
	}
	if score < 0.69 || score > 0.71 {
		t.Fatalf("expected base score 0.7, got %v", score)
	}

	preferred := base
	preferred.IsPreferred = true
	if got, _ := scoreTemplate(&preferred, "routine maintenance visit", now); got <= score {
		t.Fatalf("preferred flag must raise the score: %v <= %v", got, score)
	}

	heavy := base
	heavy.UsageCount = 11
	if got, _ := scoreTemplate(&heavy, "routine maintenance visit", now); got < 0.84 || got > 0.86 {
		t.Fatalf("usage > 10 should add 0.15, got %v", got)
	}

	moderate := base
	moderate.UsageCount = 6
	if got, _ := scoreTemplate(&moderate, "routine maintenance visit", now); got < 0.79 || got > 0.81 {
		t.Fatalf("usage > 5 should add 0.10, got %v", got)
	}

	recent := base
	recent.UpdatedAt = now.Add(-24 * time.Hour)
	if got, _ := scoreTemplate(&recent, "routine maintenance visit", now); got < 0.74 || got > 0.76 {
		t.Fatalf("recent usage should add 0.05, got %v", got)
	}

	// Adjustments never apply to weak base scores.
	weak := template("Window Cleaning", "", "")
	weak.IsPreferred = true
	weak.UsageCount = 50
	if got, _ := scoreTemplate(&weak, "completely unrelated thing", now); got != 0 {
		t.Fatalf("no base match means no boosts, got %v", got)
	}
}

func TestScoreTemplate_WordLevelContribution(t *testing.T) {
	now := time.Now()
	tmpl := template("Gutter Cleaning", "clear and flush roof gutters", "")

	// "gutter flush" matches one name word and one description word:
	// (1.0 + 0.7) / 2 * 0.6 = 0.51.
	score, exact := scoreTemplate(&tmpl, "gutter flush", now)
	if exact {
		t.Fatal("word-level matches must not be exact")
	}
	if score < 0.50 || score > 0.52 {
		t.Fatalf("expected word score 0.51, got %v", score)
	}
}
