package services

import (
	"regexp"
	"unicode"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the response from validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// RegistrationInput is what a new account submits
type RegistrationInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// AccountValidator checks registration input against the account rules:
// 3-20 char alphanumeric/underscore usernames, strong passwords, and a
// syntactically valid email when one is given.
type AccountValidator struct{}

// NewAccountValidator creates a new validator
func NewAccountValidator() *AccountValidator {
	return &AccountValidator{}
}

// Validate runs all checks and collects every failure rather than
// stopping at the first, so the caller can report them all at once.
func (v *AccountValidator) Validate(input *RegistrationInput) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: []ValidationError{},
	}

	v.checkUsername(input.Username, result)
	v.checkPassword(input.Password, result)
	if input.Email != "" {
		v.checkEmail(input.Email, result)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func (v *AccountValidator) checkUsername(username string, result *ValidationResult) {
	if username == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "username",
			Code:    "USERNAME_REQUIRED",
			Message: "username is required",
		})
		return
	}
	if !usernameRe.MatchString(username) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "username",
			Code:    "USERNAME_INVALID",
			Message: "username must be 3-20 characters: letters, digits, underscore",
		})
	}
}

func (v *AccountValidator) checkPassword(password string, result *ValidationResult) {
	if password == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "password",
			Code:    "PASSWORD_REQUIRED",
			Message: "password is required",
		})
		return
	}
	if len(password) < 8 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "password",
			Code:    "PASSWORD_TOO_SHORT",
			Message: "password must be at least 8 characters",
		})
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "password",
			Code:    "PASSWORD_NO_UPPER",
			Message: "password must contain an uppercase letter",
		})
	}
	if !hasLower {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "password",
			Code:    "PASSWORD_NO_LOWER",
			Message: "password must contain a lowercase letter",
		})
	}
	if !hasDigit {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "password",
			Code:    "PASSWORD_NO_DIGIT",
			Message: "password must contain a digit",
		})
	}
	if !hasSpecial {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "password",
			Code:    "PASSWORD_NO_SPECIAL",
			Message: "password must contain a special character",
		})
	}
}

func (v *AccountValidator) checkEmail(email string, result *ValidationResult) {
	if !emailRe.MatchString(email) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "email",
			Code:    "EMAIL_INVALID",
			Message: "email address is not valid",
		})
	}
}
