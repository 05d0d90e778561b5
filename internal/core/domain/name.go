package domain

import (
	"fmt"
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// MaxEnvNameLength is the maximum number of characters in an environment name.
const MaxEnvNameLength = 64

var validEnvNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reservedEnvNames are compared case-insensitively.
var reservedEnvNames = map[string]struct{}{
	".":            {},
	"..":           {},
	"node_modules": {},
	".git":         {},
	"temp":         {},
	"tmp":          {},
}

// ValidateName checks that name can safely be used as a directory under the base path.
// It must be called before any path is derived from a caller-supplied name.
func ValidateName(name string) error {
	if name == "" {
		return zerr.Wrap(ErrInvalidEnvName, "environment name must not be empty")
	}

	if len(name) > MaxEnvNameLength {
		return zerr.With(
			zerr.Wrap(ErrInvalidEnvName, fmt.Sprintf("environment name must be at most %d characters", MaxEnvNameLength)),
			"length", len(name),
		)
	}

	if !validEnvNameRegex.MatchString(name) {
		return zerr.With(
			zerr.Wrap(ErrInvalidEnvName, "environment name may only contain letters, digits, hyphens and underscores"),
			"name", name,
		)
	}

	if _, reserved := reservedEnvNames[strings.ToLower(name)]; reserved {
		return zerr.Wrap(ErrReservedEnvName, fmt.Sprintf("%q cannot be used as an environment name", name))
	}

	return nil
}
