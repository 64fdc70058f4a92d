// services/voice_parser.go
package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// VoiceInvoiceDraft is the in-progress invoice field set accumulated from
// voice input. It is never persisted; the client holds it between segments
// and submits it once the user confirms.
type VoiceInvoiceDraft struct {
	Customer    string     `json:"customer,omitempty"`
	Amount      float64    `json:"amount,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	InvoiceDate *time.Time `json:"invoiceDate,omitempty"`
	Quantity    *float64   `json:"quantity,omitempty"`
	UnitPrice   *float64   `json:"unitPrice,omitempty"`
	PONumber    string     `json:"poNumber,omitempty"`
}

var (
	customerPattern = regexp.MustCompile(`(?:invoice|bill)\s+(?:to|for)\s+([^,$]+?)(?:\s+for\b|,|\$|$)`)
	amountPattern   = regexp.MustCompile(`\$?(\d+(?:\.\d{1,2})?)\s*(?:dollars|bucks)?`)
	currencyPattern = regexp.MustCompile(`\b(?:create\s+in|in|use)\s+(usd|aud|eur|gbp|cad|nzd|dollars?|euros?|pounds?)\b`)
	descPattern     = regexp.MustCompile(`\bfor\s+([^,$]+?)(?:\s+due\b|,|\$|$)`)

	dueInDaysPattern = regexp.MustCompile(`due\s+in\s+(\d+)\s+days?`)
	dueNextPattern   = regexp.MustCompile(`due\s+next\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday|week|month)`)
	dueRelDayPattern = regexp.MustCompile(`due\s+(today|tomorrow)`)
	netTermsPattern  = regexp.MustCompile(`net\s+(\d+)`)
)

var currencyWords = map[string]string{
	"dollar": "USD", "dollars": "USD",
	"euro": "EUR", "euros": "EUR",
	"pound": "GBP", "pounds": "GBP",
}

// ParseVoiceCommand extracts invoice fields from one finalized speech segment
// and merges them into the accumulated draft. The merge is non-destructive:
// a field is only overwritten when the segment actually yields a value for
// it. Unmatched patterns are never an error; noisy input simply leaves the
// draft as it was.
func ParseVoiceCommand(transcript string, draft VoiceInvoiceDraft, defaultCurrency string) VoiceInvoiceDraft {
	return parseVoiceCommandAt(transcript, draft, defaultCurrency, time.Now())
}

func parseVoiceCommandAt(transcript string, draft VoiceInvoiceDraft, defaultCurrency string, now time.Time) VoiceInvoiceDraft {
	lower := strings.ToLower(transcript)

	var nameSpan []int
	if name, span, ok := extractCustomer(transcript, lower); ok {
		draft.Customer = name
		nameSpan = span
	}

	if amount, ok := extractAmount(lower); ok {
		draft.Amount = amount
	}

	// Currency is set once per session: an explicit cue word wins, otherwise
	// the user's profile default applies. Later segments never override it.
	if draft.Currency == "" {
		if code, ok := extractCurrency(lower); ok {
			draft.Currency = code
		} else if defaultCurrency != "" {
			draft.Currency = strings.ToUpper(defaultCurrency)
		} else {
			draft.Currency = "USD"
		}
	}

	if desc, ok := extractDescription(lower, nameSpan); ok {
		draft.Description = desc
	}

	if due, ok := extractDueDate(lower, now); ok {
		draft.DueDate = &due
	}

	return draft
}

// extractCustomer matches "invoice to <name>" / "bill for <name>", stopping
// at a following "for", a dollar sign, a comma or the end of the segment.
// The name is sliced out of the original transcript to keep its casing; the
// returned span covers the name capture within the lowercased text.
func extractCustomer(transcript, lower string) (string, []int, bool) {
	idx := customerPattern.FindStringSubmatchIndex(lower)
	if idx == nil {
		return "", nil, false
	}
	name := strings.TrimSpace(transcript[idx[2]:idx[3]])
	if name == "" {
		return "", nil, false
	}
	return name, []int{idx[2], idx[3]}, true
}

func extractAmount(lower string) (float64, bool) {
	match := amountPattern.FindStringSubmatch(lower)
	if match == nil {
		return 0, false
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func extractCurrency(lower string) (string, bool) {
	match := currencyPattern.FindStringSubmatch(lower)
	if match == nil {
		return "", false
	}
	word := match[1]
	if code, ok := currencyWords[word]; ok {
		return code, true
	}
	return strings.ToUpper(word), true
}

// extractDescription matches "for <text>" stopping at "due", a dollar sign,
// a comma or the end. The search starts after the customer name span so
// "invoice for John Smith" does not leak the name into the description.
func extractDescription(lower string, nameSpan []int) (string, bool) {
	offset := 0
	if nameSpan != nil {
		offset = nameSpan[1]
	}
	idx := descPattern.FindStringSubmatchIndex(lower[offset:])
	if idx == nil {
		return "", false
	}
	desc := strings.TrimSpace(lower[offset+idx[2] : offset+idx[3]])
	if desc == "" {
		return "", false
	}
	return desc, true
}

// extractDueDate evaluates the ordered due-date patterns; the first matching
// pattern wins. Weekday-specific "due next friday" is recognized but its
// date arithmetic is not implemented, so it resolves to nothing.
func extractDueDate(lower string, now time.Time) (time.Time, bool) {
	if match := dueInDaysPattern.FindStringSubmatch(lower); match != nil {
		days, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, days), true
	}

	if match := dueNextPattern.FindStringSubmatch(lower); match != nil {
		switch match[1] {
		case "week":
			return now.AddDate(0, 0, 7), true
		case "month":
			return now.AddDate(0, 0, 30), true
		default:
			// Specific weekdays fall through without a date.
			return time.Time{}, false
		}
	}

	if match := dueRelDayPattern.FindStringSubmatch(lower); match != nil {
		if match[1] == "tomorrow" {
			return now.AddDate(0, 0, 1), true
		}
		return now, true
	}

	if match := netTermsPattern.FindStringSubmatch(lower); match != nil {
		days, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, false
		}
		return now.AddDate(0, 0, days), true
	}

	return time.Time{}, false
}
