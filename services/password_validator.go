package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/edurecords/student-mis/config"
)

// commonPasswords are rejected outright regardless of the configured policy.
var commonPasswords = []string{"password", "admin123", "123456", "qwerty"}

// PasswordValidator checks candidate passwords against the configured policy.
// It is used by provisioning, not by the login path.
type PasswordValidator struct {
	settings *config.Settings
}

func NewPasswordValidator(settings *config.Settings) *PasswordValidator {
	return &PasswordValidator{settings: settings}
}

// Validate returns one message per violated rule, or nil when the password is
// acceptable.
func (pv *PasswordValidator) Validate(password string) []string {
	sec := pv.settings.Security
	var errs []string

	if len(password) < sec.PasswordMinLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters long.", sec.PasswordMinLength))
	}

	var hasUpper, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasNumber = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			hasSpecial = true
		}
	}

	if sec.PasswordRequireUppercase && !hasUpper {
		errs = append(errs, "Password must contain at least one uppercase letter.")
	}
	if sec.PasswordRequireNumbers && !hasNumber {
		errs = append(errs, "Password must contain at least one number.")
	}
	if sec.PasswordRequireSpecial && !hasSpecial {
		errs = append(errs, "Password must contain at least one special character.")
	}

	lowered := strings.ToLower(password)
	for _, common := range commonPasswords {
		if lowered == common {
			errs = append(errs, "This is a commonly used password and is not secure.")
			break
		}
	}

	return errs
}
