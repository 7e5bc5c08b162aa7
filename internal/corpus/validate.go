package corpus

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const maxFileBytes = 64 << 20

// ValidationError holds per-file validation failure messages.
type ValidationError struct {
	Name   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", e.Name, strings.Join(parts, "; "))
}

// validateFile checks the raw contents of a corpus file before it is
// normalized.
func validateFile(name string, data []byte) error {
	errs := make(map[string]string)
	if strings.TrimSpace(name) == "" {
		errs["name"] = "file name is required"
	}
	if len(data) > maxFileBytes {
		errs["size"] = fmt.Sprintf("file must be at most %d bytes", maxFileBytes)
	}
	if !utf8.Valid(data) {
		errs["encoding"] = "file is not valid UTF-8"
	}
	if len(errs) > 0 {
		return &ValidationError{Name: name, Fields: errs}
	}
	return nil
}
