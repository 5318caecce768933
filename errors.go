package declared

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Construction-time only: the declared location is not one of the
	// recognized request locations.
	CodeInvalidLocation = "invalid_location"
	// The value failed the descriptor's assertion (after optional coercion).
	CodeTypeMismatch = "type_mismatch"
	// The scalar's string form did not match the declared pattern.
	CodePatternMismatch = "pattern_mismatch"
	// A required parameter had no value in its slot.
	CodeParamMissing = "param_missing"

	// Remaining construction diagnostics.
	CodeUnknownType        = "unknown_type"
	CodeInvalidPattern     = "invalid_pattern"
	CodeInvalidSpec        = "invalid_spec"
	CodeEnclosedIgnored    = "enclosed_ignored"
	CodeDuplicateParam     = "duplicate_param"
	CodeDefaultUnreachable = "default_unreachable"
)

// Issue represents a single validation or construction entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /profile/age).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, allowed values, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"type":"integer",
	// "value":"abc"}) for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at /id
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
