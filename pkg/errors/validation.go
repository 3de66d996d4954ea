package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ValidateCoordinatePart validates one segment of a coordinate (group, artifact,
// version or snapshot qualifier) for safety. Segments become path components in
// both repository URLs and the local artifact store, so the rules are strict:
//   - No empty segments
//   - No control characters or whitespace
//   - No path separators, colons or traversal sequences
//   - Maximum length of 256 characters
func ValidateCoordinatePart(field, value string) error {
	if value == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", field)
	}

	if len(value) > 256 {
		return New(ErrCodeInvalidCoordinate, "%s too long (max 256 characters)", field)
	}

	for _, r := range value {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters", field)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		":",    // Coordinate separator
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", field, pattern)
		}
	}

	return nil
}

// ValidateManifestFilename validates a manifest filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateManifestFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be a hidden file")
	}

	return nil
}

// ValidateRepositoryURL validates a repository or mirror base URL.
// Any scheme is accepted here; unsupported schemes are rejected later by the
// prober without I/O. A host is required for network schemes.
func ValidateRepositoryURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "repository URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid repository URL %q", rawURL)
	}
	if u.Scheme == "" {
		return New(ErrCodeInvalidInput, "repository URL %q has no scheme", rawURL)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return New(ErrCodeInvalidInput, "repository URL %q has no host", rawURL)
	}

	return nil
}

// repositoryNameRegex matches repository identifiers used by affinity tables.
var repositoryNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateRepositoryName validates a repository name.
func ValidateRepositoryName(name string) error {
	if !repositoryNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid repository name: %q", name)
	}
	return nil
}
