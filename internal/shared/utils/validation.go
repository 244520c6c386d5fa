package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

// String length limits
const (
	MaxUsernameLength = 64
	MinUsernameLength = 3
	MaxPasswordLength = 128
	MinPasswordLength = 6
	MaxEmailLength    = 255
	MaxNameLength     = 128
	MaxFieldLength    = 256
)

// Regular expressions for validation
var (
	// UsernamePattern allows alphanumeric, dots, and underscores
	UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
	// EmailPattern is a basic email validation
	EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// TimePattern is a 24h HH:MM time of day
	TimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateUsername validates a username
func ValidateUsername(username string, required bool) error {
	if err := ValidateString(username, "username", MinUsernameLength, MaxUsernameLength, required); err != nil {
		return err
	}

	if username != "" && !UsernamePattern.MatchString(username) {
		return errors.New("username contains invalid characters (only letters, digits, dots, and underscores allowed)")
	}

	return nil
}

// ValidatePassword validates a password
func ValidatePassword(password string, required bool) error {
	return ValidateString(password, "password", MinPasswordLength, MaxPasswordLength, required)
}

// ValidateEmail validates an email address
func ValidateEmail(email string, required bool) error {
	if err := ValidateString(email, "email", 0, MaxEmailLength, required); err != nil {
		return err
	}

	if email != "" && !EmailPattern.MatchString(email) {
		return errors.New("invalid email format")
	}

	return nil
}

// ValidateName validates a name field
func ValidateName(name, fieldName string, required bool) error {
	return ValidateString(name, fieldName, 1, MaxNameLength, required)
}

// ValidateTime validates an optional HH:MM time of day
func ValidateTime(value, fieldName string) error {
	if value == "" {
		return nil
	}
	if !TimePattern.MatchString(value) {
		return fmt.Errorf("%s must be HH:MM", fieldName)
	}
	return nil
}

// ValidateCredentials checks a login form
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("email and password are required")
	}
	return ValidateEmail(email, true)
}

// ValidateRegistration checks a sign-up form
func ValidateRegistration(reg types.Registration) error {
	if err := ValidateName(reg.Name, "name", true); err != nil {
		return err
	}
	if err := ValidateName(reg.Lastname, "lastname", true); err != nil {
		return err
	}
	if err := ValidateUsername(reg.Username, true); err != nil {
		return err
	}
	if err := ValidateEmail(reg.Email, true); err != nil {
		return err
	}
	return ValidatePassword(reg.Password, true)
}

// ValidateProfileUpdate checks the fields an update sets
func ValidateProfileUpdate(update types.ProfileUpdate) error {
	if err := ValidateName(update.Name, "name", false); err != nil {
		return err
	}
	if err := ValidateName(update.Lastname, "lastname", false); err != nil {
		return err
	}
	if err := ValidateUsername(update.Username, false); err != nil {
		return err
	}
	if err := ValidateEmail(update.Email, false); err != nil {
		return err
	}
	return ValidatePassword(update.Password, false)
}

// ValidateWorkspaceDraft checks a gym form. Only the name is required
// when creating.
func ValidateWorkspaceDraft(draft types.WorkspaceDraft, creating bool) error {
	if err := ValidateName(draft.Name, "name", creating); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"country": draft.Country,
		"city":    draft.City,
		"address": draft.Address,
		"phone":   draft.Phone,
	} {
		if err := ValidateString(value, field, 0, MaxFieldLength, false); err != nil {
			return err
		}
	}
	if err := ValidateTime(draft.OpeningTime, "opening time"); err != nil {
		return err
	}
	return ValidateTime(draft.ClosingTime, "closing time")
}
