package errors

import (
	"strings"
	"unicode"
)

// MaxNodeNameLength bounds node identifiers accepted from users.
const MaxNodeNameLength = 256

// ValidateNodeName validates a location name supplied on the command line,
// through the API or in a graph file. Names are opaque to the search; only
// over-long names and names with control characters are rejected. An empty
// name passes: no graph holds one, so searching for it reports UNKNOWN_NODE.
func ValidateNodeName(name string) error {
	if len(name) > MaxNodeNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", MaxNodeNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}

	return nil
}

// ValidateMaxDepth checks that a depth bound is positive and, when limit is
// greater than zero, does not exceed it.
func ValidateMaxDepth(depth, limit int) error {
	if depth <= 0 {
		return New(ErrCodeInvalidInput, "max depth must be positive, got %d", depth)
	}
	if limit > 0 && depth > limit {
		return New(ErrCodeInvalidInput, "max depth %d exceeds limit %d", depth, limit)
	}
	return nil
}

// ValidatePath validates a file path supplied in a query file.
// Relative paths are resolved by the caller; this only rejects the
// obviously broken ones.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateStrategy checks a pruning strategy name against the accepted set.
func ValidateStrategy(name string, valid []string) error {
	for _, v := range valid {
		if strings.EqualFold(name, v) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unknown strategy %q (valid: %s)", name, strings.Join(valid, ", "))
}
