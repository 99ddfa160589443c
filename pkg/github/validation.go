package github

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxEnvironmentNameLength is GitHub's limit for environment names
const maxEnvironmentNameLength = 255

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateName checks a variable or secret name against GitHub's naming
// rules so that bad names fail before any request is sent
func ValidateName(name string) error {
	if name == "" {
		return NewUsageError("name is required")
	}

	// Names may only contain alphanumeric characters and underscores,
	// and cannot start with a number
	if !validName.MatchString(name) {
		return NewUsageError("name %q is invalid: use only letters, digits and underscores, and do not start with a digit", name)
	}

	if strings.HasPrefix(strings.ToUpper(name), "GITHUB_") {
		return NewUsageError("name %q is invalid: the GITHUB_ prefix is reserved", name)
	}

	return nil
}

// ValidateEnvironmentName checks a deployment environment name
func ValidateEnvironmentName(env string) error {
	if strings.TrimSpace(env) == "" {
		return NewUsageError("environment name is required")
	}

	if utf8.RuneCountInString(env) > maxEnvironmentNameLength {
		return NewUsageError("environment name must be %d characters or less", maxEnvironmentNameLength)
	}

	return nil
}
