package services

import (
	"strings"
	"testing"
)

func TestExtractServiceName(t *testing.T) {
	cases := []struct {
		description string
		want        string
	}{
		{"emergency pipe repair", "emergency pipe repair"},
		{"annual maintenance work for the office", "annual maintenance work"},
		{"deep clean consultation", "deep clean consultation"},
		// No trade keyword: first meaningful words, stopwords skipped.
		{"fix leaking faucet", "fix leaking faucet"},
		{"the quote for the new fence and gate", "quote new fence"},
		{"Mowing", "mowing"},
	}

	for _, tc := range cases {
		if got := extractServiceName(tc.description); got != tc.want {
			t.Errorf("extractServiceName(%q) = %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestDeriveKeywords(t *testing.T) {
	got := DeriveKeywords("Standard Callout", "standard callout fee for site visits")
	words := strings.Split(got, ",")

	has := func(w string) bool {
		for _, k := range words {
			if k == w {
				return true
			}
		}
		return false
	}

	for _, w := range []string{"standard", "callout", "fee", "site", "visits"} {
		if !has(w) {
			t.Errorf("keywords missing %q: %q", w, got)
		}
	}
	if has("for") {
		t.Errorf("stopword leaked into keywords: %q", got)
	}

	// Synonym expansion from the name.
	for _, w := range []string{"call out", "standard fee", "basic charge", "usual", "regular", "normal"} {
		if !has(w) {
			t.Errorf("keywords missing synonym %q: %q", w, got)
		}
	}

	// Duplicates across name and description collapse.
	count := 0
	for _, k := range words {
		if k == "standard" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one occurrence of %q, got %d in %q", "standard", count, got)
	}
}

func TestInferCategory(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"fix leaking faucet", "plumbing"},
		{"rewire the garage outlet", "electrical"},
		{"thermostat replacement", "hvac"},
		{"quarterly strategy audit", "consulting"},
		{"fix the broken gate", "repair"},
		{"mount the new TV", "installation"},
		{"window wash", "cleaning"},
		{"hedge trimming and lawn care", "landscaping"},
		{"misc admin", "general"},
		// "pipe repair" hits both plumbing and repair; plumbing is scanned first.
		{"pipe repair", "plumbing"},
	}

	for _, tc := range cases {
		if got := InferCategory(tc.text); got != tc.want {
			t.Errorf("InferCategory(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
