package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{"+12025550143", "+61 2 5550 1432", "(202) 555-0143", "12025550143"}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Errorf("expected %q to be valid", phone)
		}
	}

	invalid := []string{"", "abc", "+0123456", "+1"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Errorf("expected %q to be invalid", phone)
		}
	}
}

func TestValidateCurrency(t *testing.T) {
	valid := []string{"USD", "aud", " eur "}
	for _, code := range valid {
		if !ValidateCurrency(code) {
			t.Errorf("expected %q to be valid", code)
		}
	}

	invalid := []string{"", "US", "DOLLARS", "U1D"}
	for _, code := range invalid {
		if ValidateCurrency(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}

func TestGenerateRandomString(t *testing.T) {
	got := GenerateRandomString(6)
	if len(got) != 6 {
		t.Fatalf("length = %d, want 6", len(got))
	}
	for _, ch := range got {
		found := false
		for _, allowed := range randomChars {
			if ch == allowed {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("unexpected character %q in %q", ch, got)
		}
	}
}
