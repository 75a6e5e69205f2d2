package services

import "testing"

func hasCode(result *ValidationResult, code string) bool {
	for _, e := range result.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateAcceptsGoodInput(t *testing.T) {
	v := NewAccountValidator()

	result := v.Validate(&RegistrationInput{
		Username: "maria_92",
		Password: "Str0ng!pass",
		Email:    "maria@example.com",
	})
	if !result.Valid {
		t.Fatalf("expected valid, got errors: %+v", result.Errors)
	}
}

func TestValidateEmailOptional(t *testing.T) {
	v := NewAccountValidator()

	result := v.Validate(&RegistrationInput{
		Username: "maria_92",
		Password: "Str0ng!pass",
	})
	if !result.Valid {
		t.Fatalf("email should be optional, got errors: %+v", result.Errors)
	}
}

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		username string
		wantCode string
	}{
		{"", "USERNAME_REQUIRED"},
		{"ab", "USERNAME_INVALID"},                      // too short
		{"abcdefghijklmnopqrstu", "USERNAME_INVALID"},   // 21 chars
		{"has space", "USERNAME_INVALID"},
		{"dash-name", "USERNAME_INVALID"},
		{"dots.here", "USERNAME_INVALID"},
	}

	v := NewAccountValidator()
	for _, tc := range cases {
		result := v.Validate(&RegistrationInput{
			Username: tc.username,
			Password: "Str0ng!pass",
		})
		if result.Valid {
			t.Errorf("username %q: expected invalid", tc.username)
			continue
		}
		if !hasCode(result, tc.wantCode) {
			t.Errorf("username %q: missing code %s in %+v", tc.username, tc.wantCode, result.Errors)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		wantCode string
	}{
		{"", "PASSWORD_REQUIRED"},
		{"Sh0rt!", "PASSWORD_TOO_SHORT"},
		{"alllower1!", "PASSWORD_NO_UPPER"},
		{"ALLUPPER1!", "PASSWORD_NO_LOWER"},
		{"NoDigits!!", "PASSWORD_NO_DIGIT"},
		{"NoSpecial11", "PASSWORD_NO_SPECIAL"},
	}

	v := NewAccountValidator()
	for _, tc := range cases {
		result := v.Validate(&RegistrationInput{
			Username: "valid_user",
			Password: tc.password,
		})
		if result.Valid {
			t.Errorf("password %q: expected invalid", tc.password)
			continue
		}
		if !hasCode(result, tc.wantCode) {
			t.Errorf("password %q: missing code %s in %+v", tc.password, tc.wantCode, result.Errors)
		}
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	v := NewAccountValidator()

	result := v.Validate(&RegistrationInput{
		Username: "x",
		Password: "weak",
		Email:    "not-an-email",
	})
	if result.Valid {
		t.Fatal("expected invalid")
	}
	// Username, several password rules, and email should all be reported.
	if len(result.Errors) < 3 {
		t.Fatalf("expected errors across all fields, got %+v", result.Errors)
	}
	if !hasCode(result, "USERNAME_INVALID") || !hasCode(result, "EMAIL_INVALID") {
		t.Fatalf("missing field errors in %+v", result.Errors)
	}
}

func TestValidateEmail(t *testing.T) {
	v := NewAccountValidator()
	for _, email := range []string{"plain", "a@b", "@example.com", "two@@example.com", "spaces in@example.com"} {
		result := v.Validate(&RegistrationInput{
			Username: "valid_user",
			Password: "Str0ng!pass",
			Email:    email,
		})
		if !hasCode(result, "EMAIL_INVALID") {
			t.Errorf("email %q: expected EMAIL_INVALID", email)
		}
	}
}
