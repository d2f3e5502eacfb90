package errors

import (
	"net"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// ValidateRootPath validates a directory path given on the command line or
// over the API before it becomes a graph root.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//
// Whether the path exists is checked by the caller.
func ValidateRootPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
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

// ValidateFormat checks that format is one of allowed (case-insensitive) and
// returns it lowercased.
func ValidateFormat(format string, allowed ...string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return "", New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, f) {
		return "", New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return f, nil
}

// ValidateListenAddr validates a host:port listen address. The host may be
// empty to listen on all interfaces.
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "listen address cannot be empty")
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid listen address %q", addr)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return New(ErrCodeInvalidInput, "invalid port %q", port)
	}
	return nil
}
