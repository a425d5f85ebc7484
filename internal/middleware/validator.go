package middleware

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bryanwahyu/ai-readiness/internal/domain/assessment"
)

// Input validation and sanitization utilities

// ParseCompanyID validates a company id path parameter
func ParseCompanyID(raw string) (assessment.CompanyID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid company id %q", assessment.ErrInvalidRequest, raw)
	}
	return assessment.CompanyID(id), nil
}

// ParseSectionParam validates a section path parameter (1..6)
func ParseSectionParam(raw string) (assessment.Section, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !assessment.Section(n).Valid() {
		return 0, fmt.Errorf("%w: section %q (want 1-6)", assessment.ErrInvalidSection, raw)
	}
	return assessment.Section(n), nil
}

// ValidateUploadName accepts .csv and .xlsx names without path tricks
func ValidateUploadName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: no file selected", assessment.ErrIngestion)
	}
	if strings.ContainsAny(name, "\x00\n\r") {
		return fmt.Errorf("%w: invalid characters in filename", assessment.ErrIngestion)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return nil
	}
	return fmt.Errorf("%w: please upload a .csv or .xlsx file", assessment.ErrIngestion)
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
