package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// maxClaimAmount is the client-side sanity cap on a single amount. The
// backend enforces the tenant's real policy limits.
const maxClaimAmount = 100000

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateAmount validates a claim or allowance amount
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %.2f", amount)
	}

	if amount > maxClaimAmount {
		return fmt.Errorf("amount exceeds maximum limit: %.2f", amount)
	}

	return nil
}

// ValidateCurrency validates a 3-letter uppercase currency code
func ValidateCurrency(code string) error {
	if !regexp.MustCompile(`^[A-Z]{3}$`).MatchString(code) {
		return fmt.Errorf("currency must be a 3-letter uppercase code: %s", code)
	}
	return nil
}

// SanitizeFileName strips path separators, control characters and other
// characters unsafe in file names, so user-supplied titles can become
// export file names.
func SanitizeFileName(name string) string {
	sanitized := regexp.MustCompile(`[\x00-\x1f\x7f/\\:*?"<>|]`).ReplaceAllString(name, "")
	sanitized = strings.TrimSpace(sanitized)
	sanitized = regexp.MustCompile(`\s+`).ReplaceAllString(sanitized, "_")
	if sanitized == "" {
		return "untitled"
	}
	return sanitized
}
