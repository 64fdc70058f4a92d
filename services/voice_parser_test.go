package services

import (
	"testing"
	"time"
)

var parseNow = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

func parseAt(transcript string, draft VoiceInvoiceDraft, defaultCurrency string) VoiceInvoiceDraft {
	return parseVoiceCommandAt(transcript, draft, defaultCurrency, parseNow)
}

func TestParseVoiceCommand_FullUtterance(t *testing.T) {
	draft := parseAt("Create an invoice for John Smith, $250 for pipe repair, due in 7 days", VoiceInvoiceDraft{}, "USD")

	if draft.Customer != "John Smith" {
		t.Errorf("customer = %q, want John Smith", draft.Customer)
	}
	if draft.Amount != 250 {
		t.Errorf("amount = %v, want 250", draft.Amount)
	}
	if draft.Currency != "USD" {
		t.Errorf("currency = %q, want USD", draft.Currency)
	}
	if draft.Description != "pipe repair" {
		t.Errorf("description = %q, want pipe repair", draft.Description)
	}
	if draft.DueDate == nil {
		t.Fatal("expected a due date")
	}
	if want := parseNow.AddDate(0, 0, 7); !draft.DueDate.Equal(want) {
		t.Errorf("dueDate = %v, want %v", draft.DueDate, want)
	}
}

func TestParseVoiceCommand_MergeIsNonDestructive(t *testing.T) {
	draft := parseAt("invoice to Acme Corp", VoiceInvoiceDraft{}, "AUD")
	if draft.Customer != "Acme Corp" {
		t.Fatalf("customer = %q, want Acme Corp", draft.Customer)
	}

	draft = parseAt("$500 dollars", draft, "AUD")
	if draft.Customer != "Acme Corp" {
		t.Errorf("second segment dropped the customer: %q", draft.Customer)
	}
	if draft.Amount != 500 {
		t.Errorf("amount = %v, want 500", draft.Amount)
	}

	draft = parseAt("due tomorrow", draft, "AUD")
	if draft.Customer != "Acme Corp" || draft.Amount != 500 {
		t.Errorf("third segment dropped earlier fields: %+v", draft)
	}
	if draft.DueDate == nil || !draft.DueDate.Equal(parseNow.AddDate(0, 0, 1)) {
		t.Errorf("dueDate = %v, want tomorrow", draft.DueDate)
	}
}

func TestParseVoiceCommand_NewExtractionOverwrites(t *testing.T) {
	draft := parseAt("invoice to Acme Corp", VoiceInvoiceDraft{}, "USD")
	draft = parseAt("no wait, bill to Jane Doe", draft, "USD")

	if draft.Customer != "Jane Doe" {
		t.Errorf("customer = %q, want Jane Doe", draft.Customer)
	}
}

func TestParseVoiceCommand_CurrencyRules(t *testing.T) {
	// Explicit cue word wins over the profile default.
	draft := parseAt("use gbp", VoiceInvoiceDraft{}, "USD")
	if draft.Currency != "GBP" {
		t.Errorf("currency = %q, want GBP", draft.Currency)
	}

	// Once set it is frozen; later cues do not override.
	draft = parseAt("actually create in eur", draft, "USD")
	if draft.Currency != "GBP" {
		t.Errorf("currency was overridden to %q", draft.Currency)
	}

	// Currency words map to ISO codes.
	draft = parseAt("bill to Bob in euros", VoiceInvoiceDraft{}, "USD")
	if draft.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", draft.Currency)
	}

	// No cue word: profile default applies.
	draft = parseAt("invoice to Bob", VoiceInvoiceDraft{}, "aud")
	if draft.Currency != "AUD" {
		t.Errorf("currency = %q, want AUD", draft.Currency)
	}

	// No cue and no profile default: USD.
	draft = parseAt("invoice to Bob", VoiceInvoiceDraft{}, "")
	if draft.Currency != "USD" {
		t.Errorf("currency = %q, want USD", draft.Currency)
	}

	// A word merely ending in a cue word is not a cue.
	draft = parseAt("cleaned the house euros", VoiceInvoiceDraft{}, "AUD")
	if draft.Currency != "AUD" {
		t.Errorf("currency = %q, want AUD (no cue in transcript)", draft.Currency)
	}
}

func TestParseVoiceCommand_DueDates(t *testing.T) {
	cases := []struct {
		transcript string
		want       time.Time
	}{
		{"due in 14 days", parseNow.AddDate(0, 0, 14)},
		{"due in 1 day", parseNow.AddDate(0, 0, 1)},
		{"due next week", parseNow.AddDate(0, 0, 7)},
		{"due next month", parseNow.AddDate(0, 0, 30)},
		{"due today", parseNow},
		{"due tomorrow", parseNow.AddDate(0, 0, 1)},
		{"net 30", parseNow.AddDate(0, 0, 30)},
		// "due in N days" outranks a trailing net-terms clause.
		{"due in 14 days net 30", parseNow.AddDate(0, 0, 14)},
	}

	for _, tc := range cases {
		draft := parseAt(tc.transcript, VoiceInvoiceDraft{}, "USD")
		if draft.DueDate == nil {
			t.Errorf("%q: expected a due date", tc.transcript)
			continue
		}
		if !draft.DueDate.Equal(tc.want) {
			t.Errorf("%q: dueDate = %v, want %v", tc.transcript, draft.DueDate, tc.want)
		}
	}
}

func TestParseVoiceCommand_WeekdayIsRecognizedButUnresolved(t *testing.T) {
	draft := parseAt("due next friday", VoiceInvoiceDraft{}, "USD")
	if draft.DueDate != nil {
		t.Errorf("weekday due dates must stay unset, got %v", draft.DueDate)
	}
}

func TestParseVoiceCommand_CustomerNameDoesNotLeakIntoDescription(t *testing.T) {
	// The customer clause is also a "for <text>" candidate; only text after
	// the name may become the description.
	draft := parseAt("invoice for John Smith", VoiceInvoiceDraft{}, "USD")
	if draft.Customer != "John Smith" {
		t.Errorf("customer = %q, want John Smith", draft.Customer)
	}
	if draft.Description != "" {
		t.Errorf("description = %q, want empty", draft.Description)
	}

	draft = parseAt("bill to Acme Corp for consulting services", VoiceInvoiceDraft{}, "USD")
	if draft.Customer != "Acme Corp" {
		t.Errorf("customer = %q, want Acme Corp", draft.Customer)
	}
	if draft.Description != "consulting services" {
		t.Errorf("description = %q, want consulting services", draft.Description)
	}
}

func TestParseVoiceCommand_TrailingForStopsCustomerName(t *testing.T) {
	// The user trailed off after "for"; the stop word must not be swallowed
	// into the name.
	draft := parseAt("bill to Bob for", VoiceInvoiceDraft{}, "USD")
	if draft.Customer != "Bob" {
		t.Errorf("customer = %q, want Bob", draft.Customer)
	}
	if draft.Description != "" {
		t.Errorf("description = %q, want empty", draft.Description)
	}
}

func TestParseVoiceCommand_CustomerCasingPreserved(t *testing.T) {
	draft := parseAt("Invoice to McDonald Plumbing LLC, $90", VoiceInvoiceDraft{}, "USD")
	if draft.Customer != "McDonald Plumbing LLC" {
		t.Errorf("customer = %q, want original casing preserved", draft.Customer)
	}
}

func TestParseVoiceCommand_NoisyInputLeavesDraftUntouched(t *testing.T) {
	prior := VoiceInvoiceDraft{Customer: "Jane Doe", Amount: 75, Currency: "USD", Description: "lawn mowing"}

	draft := parseAt("um hello hello can you hear me", prior, "USD")

	if draft.Customer != prior.Customer || draft.Amount != prior.Amount ||
		draft.Currency != prior.Currency || draft.Description != prior.Description {
		t.Errorf("noisy segment changed the draft: %+v", draft)
	}
	if draft.DueDate != nil {
		t.Errorf("noisy segment set a due date: %v", draft.DueDate)
	}
}

func TestParseVoiceCommand_AmountFormats(t *testing.T) {
	cases := []struct {
		transcript string
		want       float64
	}{
		{"$250", 250},
		{"$99.50", 99.5},
		{"300 dollars", 300},
		{"45 bucks", 45},
	}

	for _, tc := range cases {
		draft := parseAt(tc.transcript, VoiceInvoiceDraft{}, "USD")
		if draft.Amount != tc.want {
			t.Errorf("%q: amount = %v, want %v", tc.transcript, draft.Amount, tc.want)
		}
	}
}
